package i18n

import "fmt"

// deckSystemPrompts instructs the model to answer with one deck document.
var deckSystemPrompts = map[Language]string{
	English: `You are a senior presentation designer. You turn a topic into a concise, well-structured slide deck.

Rules:
- Answer with a single JSON object and nothing else: no prose, no Markdown fences
- The object has "title", "topic", "style" and "slides"
- Every slide has a unique "id", a "type" and a "title"
- Allowed types: title, content, chart, table, process
- The first slide is a title slide with a short "subtitle"
- content slides carry 3 to 5 short "bulletPoints"; inline **bold** and *italic* are allowed
- chart slides carry "chartData" with "type" (bar, line or pie), "labels" and "datasets"; each dataset has "label" and "data" with exactly one number per label
- table slides carry "tableData" with "headers" and "rows"; every row has one cell per header
- process slides carry 3 or 4 "processSteps", each with "title" and "description"
- Optionally add "backgroundImageKeyword" (one or two English words) and "layout" (left, right, center or split)
- Use realistic, plausible numbers; never use placeholder text such as "Lorem ipsum" or "Data 1"`,

	Chinese: `你是一位资深的演示文稿设计师，负责把一个主题整理成简洁、结构清晰的幻灯片。

规则：
- 只输出一个 JSON 对象，不要输出任何解释文字，也不要使用 Markdown 代码块
- 对象包含 "title"、"topic"、"style" 和 "slides"
- 每张幻灯片都有唯一的 "id"、"type" 和 "title"
- type 只能是 title、content、chart、table、process 之一
- 第一张幻灯片是 title 类型，并带一个简短的 "subtitle"
- content 幻灯片包含 3 到 5 条简短的 "bulletPoints"，可以使用 **粗体** 和 *斜体*
- chart 幻灯片包含 "chartData"，其中有 "type"（bar、line 或 pie）、"labels" 和 "datasets"；每个 dataset 有 "label" 和 "data"，data 中的数字个数必须与 labels 一致
- table 幻灯片包含 "tableData"，其中有 "headers" 和 "rows"，每行单元格数与表头一致
- process 幻灯片包含 3 到 4 个 "processSteps"，每个步骤有 "title" 和 "description"
- 可选字段："backgroundImageKeyword"（一到两个英文单词）和 "layout"（left、right、center 或 split）
- 使用真实可信的数字，禁止使用 "示例数据"、"数据1" 等占位内容`,
}

// deckUserPromptTemplates takes topic, style and slide count.
var deckUserPromptTemplates = map[Language]string{
	English: "Create a presentation about \"%s\".\nVisual style: %s.\nNumber of slides: exactly %d.\nWrite all slide text in English.",
	Chinese: "请制作一份关于「%s」的演示文稿。\n视觉风格：%s。\n幻灯片数量：恰好 %d 张。\n所有幻灯片文字使用简体中文。",
}

// promptSections holds the optional blocks appended to the user prompt.
var promptSections = map[string]map[Language]string{
	"schema": {
		English: "\n\nThe JSON must follow this schema:\n%s",
		Chinese: "\n\nJSON 必须符合以下结构：\n%s",
	},
	"file_context": {
		English: "\n\nBase the content on the following source document. Prefer its facts and figures over general knowledge:\n---\n%s\n---",
		Chinese: "\n\n请以下面的源文档为依据组织内容，优先使用其中的事实和数据：\n---\n%s\n---",
	},
	"file_context_truncated": {
		English: "\n(The source document was truncated.)",
		Chinese: "\n（源文档内容已截断。）",
	},
}

// GetDeckSystemPrompt returns the deck generation system prompt in the current language
func GetDeckSystemPrompt() string {
	lang := GetLanguage()
	if prompt, ok := deckSystemPrompts[lang]; ok {
		return prompt
	}
	return deckSystemPrompts[English]
}

// FormatDeckUserPrompt returns the user request for topic, style and slide count
func FormatDeckUserPrompt(topic, style string, slideCount int) string {
	lang := GetLanguage()
	template, ok := deckUserPromptTemplates[lang]
	if !ok {
		template = deckUserPromptTemplates[English]
	}
	return fmt.Sprintf(template, topic, style, slideCount)
}

// GetPromptSection returns the prompt section for key in the current language
func GetPromptSection(key string) string {
	lang := GetLanguage()
	if sections, ok := promptSections[key]; ok {
		if section, ok := sections[lang]; ok {
			return section
		}
		if section, ok := sections[English]; ok {
			return section
		}
	}
	return key
}

// FormatPromptSection formats a prompt section with parameters
func FormatPromptSection(key string, params ...interface{}) string {
	section := GetPromptSection(key)
	if len(params) > 0 {
		return fmt.Sprintf(section, params...)
	}
	return section
}
