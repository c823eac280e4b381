// Package service 包含了应用的业务逻辑层。
package service

import (
	"fmt"
	"strconv"
	"strings"

	"country-insight-go/internal/model"
)

// chatSystemInstructions 约束对话模式下助手的行为。
const chatSystemInstructions = "You are a helpful assistant that answers questions about countries " +
	"using the structured data I provide from the REST Countries API. " +
	"If something is not in the data, you may answer from general knowledge, " +
	"but say that it is not directly from the API. Keep answers clear and friendly."

// noCountryData 在没有提供国家数据时显式告知模型，避免其臆造未声明的上下文。
const noCountryData = "No country data was provided."

// PromptComposer 把国家记录、会话转录和富化选项渲染成单条提示词。
// 纯函数：相同输入永远产生字节一致的输出，不做任何 I/O。
type PromptComposer struct{}

// NewPromptComposer 创建一个新的 PromptComposer。
func NewPromptComposer() PromptComposer {
	return PromptComposer{}
}

// Compose 按 opts.Mode 选择模板分支并渲染完整提示词。
// transcript 仅对话模式使用；secondary 仅对比模式使用。
// 用户自由文本原样透传，不做清洗：文本只会发给生成服务，不会被执行。
func (PromptComposer) Compose(transcript []model.ChatMessage, primary, secondary *model.CountryRecord, opts model.InsightOptions) string {
	switch opts.Mode {
	case model.PromptModeTravelGuide:
		return composeTravelGuide(primary, opts)
	case model.PromptModeComparison:
		return composeComparison(primary, secondary, opts)
	default:
		return composeChat(transcript, primary, opts)
	}
}

func composeChat(transcript []model.ChatMessage, country *model.CountryRecord, opts model.InsightOptions) string {
	var sb strings.Builder
	sb.WriteString(chatSystemInstructions)
	sb.WriteString("\n\nConversation so far:\n")
	for _, msg := range transcript {
		sb.WriteString(strings.ToUpper(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	sb.WriteString("\nStructured REST Countries API info:\n")
	if country != nil {
		sb.WriteString(countryBlock(country))
	} else {
		sb.WriteString(noCountryData)
		sb.WriteString("\n")
	}

	// 最新一问已经在转录末尾，单独再渲染一次让模型聚焦
	if latest := latestUserContent(transcript); latest != "" {
		sb.WriteString("\nUser's latest question:\n")
		sb.WriteString(latest)
		sb.WriteString("\n")
	}

	if opts.FocusNote != "" {
		sb.WriteString("\nGive extra attention to: ")
		sb.WriteString(opts.FocusNote)
		sb.WriteString("\n")
	}

	sb.WriteString("\nNow respond as the assistant. Be concise but informative.")
	if detail := detailInstruction(opts.DetailLevel); detail != "" {
		sb.WriteString(" ")
		sb.WriteString(detail)
	}
	return sb.String()
}

func composeTravelGuide(country *model.CountryRecord, opts model.InsightOptions) string {
	name := noCountryData
	if country != nil {
		name = country.CommonName
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a detailed %d-day travel guide for %s specifically for %s.\n\n",
		opts.TripDays, name, opts.TravelerType)

	sb.WriteString("Country Information:\n")
	if country != nil {
		sb.WriteString(countryBlock(country))
	} else {
		sb.WriteString(noCountryData)
		sb.WriteString("\n")
	}

	sb.WriteString("\nPlease include:\n")
	fmt.Fprintf(&sb, "1. A brief introduction to the country\n")
	fmt.Fprintf(&sb, "2. Recommended itinerary for %d days\n", opts.TripDays)
	sb.WriteString("3. Must-visit attractions and hidden gems\n")
	sb.WriteString("4. Local cuisine recommendations\n")
	sb.WriteString("5. Cultural tips and etiquette\n")
	fmt.Fprintf(&sb, "6. Budget recommendations for %s\n", opts.TravelerType)
	sb.WriteString("7. Transportation advice\n")

	if opts.FocusNote != "" {
		sb.WriteString("\nGive extra attention to these interests: ")
		sb.WriteString(opts.FocusNote)
		sb.WriteString("\n")
	}

	sb.WriteString("\nMake it engaging and practical for someone actually planning to visit!")
	if detail := detailInstruction(opts.DetailLevel); detail != "" {
		sb.WriteString(" ")
		sb.WriteString(detail)
	}
	return sb.String()
}

func composeComparison(primary, secondary *model.CountryRecord, opts model.InsightOptions) string {
	firstName := labelOrPlaceholder(primary, "the first country")
	secondName := labelOrPlaceholder(secondary, "the second country")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compare %s and %s focusing on %s.\n\n", firstName, secondName, opts.Category)

	sb.WriteString(comparisonSection(primary, "the first country"))
	sb.WriteString("\n")
	sb.WriteString(comparisonSection(secondary, "the second country"))

	sb.WriteString("\nProvide a detailed comparison covering:\n")
	fmt.Fprintf(&sb, "1. Key similarities and differences in %s\n", opts.Category)
	fmt.Fprintf(&sb, "2. Cultural aspects related to %s\n", opts.Category)
	sb.WriteString("3. Economic or developmental perspectives\n")
	sb.WriteString("4. Unique advantages of each country\n")
	sb.WriteString("5. Interesting facts or insights\n")

	if opts.FocusNote != "" {
		sb.WriteString("\nGive extra attention to: ")
		sb.WriteString(opts.FocusNote)
		sb.WriteString("\n")
	}

	sb.WriteString("\nMake the comparison informative and engaging!")
	if detail := detailInstruction(opts.DetailLevel); detail != "" {
		sb.WriteString(" ")
		sb.WriteString(detail)
	}
	return sb.String()
}

// comparisonSection 渲染一个对比参与方。
// 记录缺失时输出一句显式的 "no data" 说明而不是静默省略，
// 防止生成服务在未声明的上下文上自由发挥。
func comparisonSection(country *model.CountryRecord, fallbackLabel string) string {
	if country == nil {
		return fmt.Sprintf("No data was provided for %s.\n", fallbackLabel)
	}
	return country.CommonName + ":\n" + countryBlock(country)
}

func labelOrPlaceholder(country *model.CountryRecord, fallback string) string {
	if country == nil {
		return fallback
	}
	return country.CommonName
}

// countryBlock 按固定字段顺序渲染一条国家记录：
// 名称 → 首都 → 大区/子区 → 人口 → 面积 → 语言 → 货币 → 国旗。
func countryBlock(c *model.CountryRecord) string {
	var sb strings.Builder
	sb.WriteString("- Name: " + c.CommonName + "\n")
	sb.WriteString("- Official Name: " + c.OfficialName + "\n")
	sb.WriteString("- Capital: " + c.Capital + "\n")
	sb.WriteString("- Region: " + c.Region + "\n")
	sb.WriteString("- Subregion: " + c.Subregion + "\n")
	sb.WriteString("- Population: " + groupDigits(c.Population) + "\n")
	sb.WriteString("- Area: " + formatArea(c.Area) + " km²\n")
	sb.WriteString("- Languages: " + strings.Join(c.Languages, ", ") + "\n")
	sb.WriteString("- Currencies: " + strings.Join(c.Currencies, ", ") + "\n")
	sb.WriteString("- Flag: " + c.Flag + "\n")
	return sb.String()
}

// latestUserContent 返回转录中最后一条用户消息的内容。
func latestUserContent(transcript []model.ChatMessage) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == model.RoleUser {
			return transcript[i].Content
		}
	}
	return ""
}

// detailInstruction 把 1..3 的详细程度映射为一句模板指令，超出范围按标准处理。
func detailInstruction(level int) string {
	switch level {
	case model.DetailLevelBrief:
		return "Keep the answer brief: a few short paragraphs at most."
	case model.DetailLevelInDepth:
		return "Be thorough and in-depth, covering each point extensively."
	default:
		return ""
	}
}

// groupDigits 以千分位格式化一个非负整数。
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// formatArea 格式化面积：整数部分加千分位，非整数保留一位小数。
func formatArea(area float64) string {
	if area == float64(int64(area)) {
		return groupDigits(int64(area))
	}
	s := strconv.FormatFloat(area, 'f', 1, 64)
	dot := strings.Index(s, ".")
	whole, _ := strconv.ParseInt(s[:dot], 10, 64)
	return groupDigits(whole) + s[dot:]
}
