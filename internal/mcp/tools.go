package mcp

import "github.com/mark3labs/mcp-go/mcp"

var getMenuTool = mcp.NewTool("get_menu",
	mcp.WithDescription("Get the current menu and brand profile as JSON."),
)

var renderPreviewTool = mcp.NewTool("render_preview",
	mcp.WithDescription("Render the menu in a display mode and return the visual tree."),
	mcp.WithString("mode",
		mcp.Description("Display mode (default normal)"),
		mcp.Enum("normal", "print", "story", "carousel"),
	),
	mcp.WithNumber("viewport",
		mcp.Description("Viewport width in pixels for normal mode"),
	),
	mcp.WithString("slide",
		mcp.Description("Carousel slide"),
		mcp.Enum("cover", "section", "contacts"),
	),
	mcp.WithNumber("index",
		mcp.Description("Section index of a section slide"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "json"),
	),
)

var editMenuTool = mcp.NewTool("edit_menu",
	mcp.WithDescription("Apply one edit command to the menu. Example: {\"op\":\"set_menu_field\",\"field\":\"title\",\"value\":\"Da Mario\"}"),
	mcp.WithString("command",
		mcp.Required(),
		mcp.Description("Edit command as a JSON object"),
	),
)

var listPresetsTool = mcp.NewTool("list_presets",
	mcp.WithDescription("List the brand presets by category."),
)

var applyPresetTool = mcp.NewTool("apply_preset",
	mcp.WithDescription("Apply a brand preset to the menu."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Preset id, as returned by list_presets"),
	),
)

var importMenuTool = mcp.NewTool("import_menu",
	mcp.WithDescription("Replace the menu content with a menu parsed from plain text."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Menu text, one dish per line"),
	),
)

var exportMenuTool = mcp.NewTool("export_menu",
	mcp.WithDescription("Export the menu to the export directory."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Export format"),
		mcp.Enum("story", "print", "carousel", "html"),
	),
)
