package countries

import (
	"bytes"
	"encoding/json"

	"country-insight-go/internal/model"
)

// 占位值策略集中在本文件：上游缺失的字段统一替换为下列值，
// 归一化之外的代码不需要再做字段兜底。
const placeholderUnknown = "Unknown"

// apiCountry 对应 REST Countries v3.1 返回的单个国家对象中本服务关心的字段。
type apiCountry struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Capital    []string      `json:"capital"`
	Region     string        `json:"region"`
	Subregion  string        `json:"subregion"`
	Population int64         `json:"population"`
	Area       float64       `json:"area"`
	Languages  languageNames `json:"languages"`
	Currencies currencyCodes `json:"currencies"`
	Flag       string        `json:"flag"`
	Flags      struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
}

// languageNames 以 JSON 对象键的出现顺序收集 value 字符串。
// 标准库 map 解码不保留键序，这里用 Decoder 逐 token 读取。
type languageNames []string

func (l *languageNames) UnmarshalJSON(data []byte) error {
	names, err := decodeOrderedObject(data, true)
	if err != nil {
		return err
	}
	*l = names
	return nil
}

// currencyCodes 以 JSON 对象键的出现顺序收集键本身（ISO 货币代码）。
type currencyCodes []string

func (c *currencyCodes) UnmarshalJSON(data []byte) error {
	codes, err := decodeOrderedObject(data, false)
	if err != nil {
		return err
	}
	*c = codes
	return nil
}

// decodeOrderedObject 按出现顺序遍历一个 JSON 对象。
// wantValues 为 true 时收集字符串 value，否则收集键。
// null 或非对象输入按缺失处理，返回 nil 切片。
func decodeOrderedObject(data []byte, wantValues bool) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, nil
	}

	var out []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		// 先整体读走 value，再尝试按字符串解析：
		// 直接 Decode 到 string 失败时 value 已被消费，无法再跳过
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		if wantValues {
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				// value 不是字符串时跳过该键
				continue
			}
			out = append(out, value)
		} else {
			out = append(out, key)
		}
	}
	return out, nil
}

// normalize 把一个上游国家对象转换为 CountryRecord。
// 调用方拿到的记录字段永远有值。
func normalize(entry apiCountry) model.CountryRecord {
	record := model.CountryRecord{
		CommonName:   entry.Name.Common,
		OfficialName: entry.Name.Official,
		Capital:      placeholderUnknown,
		Region:       entry.Region,
		Subregion:    entry.Subregion,
		Population:   entry.Population,
		Area:         entry.Area,
		Languages:    []string(entry.Languages),
		Currencies:   []string(entry.Currencies),
		Flag:         entry.Flags.PNG,
	}

	if record.CommonName == "" {
		record.CommonName = placeholderUnknown
	}
	if record.OfficialName == "" {
		record.OfficialName = record.CommonName
	}
	if len(entry.Capital) > 0 && entry.Capital[0] != "" {
		record.Capital = entry.Capital[0]
	}
	if record.Region == "" {
		record.Region = placeholderUnknown
	}
	if record.Subregion == "" {
		record.Subregion = placeholderUnknown
	}
	if record.Population < 0 {
		record.Population = 0
	}
	if record.Area < 0 {
		record.Area = 0
	}
	if record.Languages == nil {
		record.Languages = []string{}
	}
	if record.Currencies == nil {
		record.Currencies = []string{}
	}
	if record.Flag == "" {
		record.Flag = entry.Flags.SVG
	}
	if record.Flag == "" {
		record.Flag = entry.Flag
	}

	return record
}
