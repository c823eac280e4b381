package countries

import "country-insight-go/internal/model"

// SampleRecords 返回内置的 10 条样本国家数据，
// 作为批量抓取的最后一级降级，保证仪表盘离线也可演示。
func SampleRecords() []model.CountryRecord {
	records := make([]model.CountryRecord, len(sampleCountries))
	copy(records, sampleCountries)
	return records
}

var sampleCountries = []model.CountryRecord{
	{
		CommonName:   "United States",
		OfficialName: "United States of America",
		Capital:      "Washington D.C.",
		Region:       "Americas",
		Subregion:    "Unknown",
		Population:   331002651,
		Area:         9833517,
		Languages:    []string{"English"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/us.png",
	},
	{
		CommonName:   "India",
		OfficialName: "Republic of India",
		Capital:      "New Delhi",
		Region:       "Asia",
		Subregion:    "Unknown",
		Population:   1380004385,
		Area:         3287263,
		Languages:    []string{"Hindi", "English"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/in.png",
	},
	{
		CommonName:   "China",
		OfficialName: "People's Republic of China",
		Capital:      "Beijing",
		Region:       "Asia",
		Subregion:    "Unknown",
		Population:   1402112000,
		Area:         9706961,
		Languages:    []string{"Chinese"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/cn.png",
	},
	{
		CommonName:   "Brazil",
		OfficialName: "Federative Republic of Brazil",
		Capital:      "Brasília",
		Region:       "Americas",
		Subregion:    "Unknown",
		Population:   212559417,
		Area:         8515767,
		Languages:    []string{"Portuguese"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/br.png",
	},
	{
		CommonName:   "Germany",
		OfficialName: "Federal Republic of Germany",
		Capital:      "Berlin",
		Region:       "Europe",
		Subregion:    "Unknown",
		Population:   83240525,
		Area:         357114,
		Languages:    []string{"German"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/de.png",
	},
	{
		CommonName:   "Nigeria",
		OfficialName: "Federal Republic of Nigeria",
		Capital:      "Abuja",
		Region:       "Africa",
		Subregion:    "Unknown",
		Population:   206139587,
		Area:         923768,
		Languages:    []string{"English"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/ng.png",
	},
	{
		CommonName:   "Australia",
		OfficialName: "Commonwealth of Australia",
		Capital:      "Canberra",
		Region:       "Oceania",
		Subregion:    "Unknown",
		Population:   25499884,
		Area:         7692024,
		Languages:    []string{"English"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/au.png",
	},
	{
		CommonName:   "Canada",
		OfficialName: "Canada",
		Capital:      "Ottawa",
		Region:       "Americas",
		Subregion:    "Unknown",
		Population:   38005238,
		Area:         9984670,
		Languages:    []string{"English", "French"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/ca.png",
	},
	{
		CommonName:   "Japan",
		OfficialName: "Japan",
		Capital:      "Tokyo",
		Region:       "Asia",
		Subregion:    "Unknown",
		Population:   125836021,
		Area:         377930,
		Languages:    []string{"Japanese"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/jp.png",
	},
	{
		CommonName:   "France",
		OfficialName: "French Republic",
		Capital:      "Paris",
		Region:       "Europe",
		Subregion:    "Unknown",
		Population:   67391582,
		Area:         551695,
		Languages:    []string{"French"},
		Currencies:   []string{},
		Flag:         "https://flagcdn.com/w320/fr.png",
	},
}
