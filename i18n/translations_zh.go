package i18n

var chineseTranslations = map[string]string{
	// 菜单
	"menu.file":           "文件",
	"menu.open_source":    "打开源文档...",
	"menu.export":         "导出",
	"menu.export_pptx":    "PowerPoint (.pptx)...",
	"menu.export_pdf":     "PDF（打印）...",
	"menu.export_outline": "大纲 (.docx)...",
	"menu.export_data":    "图表与表格数据 (.xlsx)...",
	"menu.export_handout": "讲义 (.pdf)...",
	"menu.quit":           "退出",
	"menu.view":           "视图",
	"menu.grid":           "幻灯片总览",
	"menu.fullscreen":     "切换全屏",
	"menu.laser":          "激光笔",
	"menu.style":          "风格",
	"menu.help":           "帮助",
	"menu.about":          "关于 Deck Studio",

	// 对话框
	"dialog.open_source_title": "选择源文档",
	"dialog.source_filter":     "文档 (*.txt;*.md;*.csv;*.json;*.html;*.pptx;*.xlsx;*.xls)",
	"dialog.export_title":      "导出演示文稿",
	"dialog.export_failed":     "导出失败",
	"dialog.export_done":       "已导出到 %s",
	"dialog.about":             "Deck Studio %s\nAI 辅助演示文稿",

	// 生成
	"generate.started":       "正在生成「%s」...",
	"generate.succeeded":     "已生成 %d 张幻灯片",
	"generate.timeout":       "模型在 %d 秒内没有响应，请重试。",
	"generate.invalid":       "模型返回的幻灯片无法使用：%s",
	"generate.no_model":      "尚未配置模型，请在设置中填写服务商和 API 密钥。",
	"generate.empty_topic":   "请输入主题",
	"generate.source_loaded": "已从 %[2]s 读取 %[1]d 个字符",
	"generate.source_failed": "无法读取 %s：%v",

	// 导出
	"export.in_progress": "已有导出任务正在进行",
	"export.no_deck":     "没有可导出的演示文稿",
	"export.unsupported": "不支持的导出格式：%s",

	// 存储
	"store.history_saved":   "已保存到历史记录",
	"store.history_deleted": "已从历史记录中删除",
	"store.published":       "已分享到社区",
	"store.not_found":       "该演示文稿已不存在",

	// 配置
	"config.saved":    "设置已保存",
	"config.reloaded": "已从磁盘重新加载设置",
	"config.invalid":  "设置无效：%s",

	// 播放
	"player.slide_of": "第 %d 张，共 %d 张",
	"player.no_deck":  "尚未加载演示文稿",
}
