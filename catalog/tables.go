package catalog

// DefaultDomain is returned by the router when keyword detection ties or
// finds nothing.
const DefaultDomain = "style"

// Table describes one built-in knowledge-base CSV: where it lives and
// which columns are scored versus displayed.
type Table struct {
	File          string
	IDColumn      string   // stable record identifier within the table
	SearchColumns []string // free text used for lexical scoring
	OutputColumns []string // display-only fields
	KeywordColumn string   // optional; split into the "keywords" list field
}

// reviewColumns is the shared shape of the guideline-review tables
// (ux, react, web).
var reviewColumns = []string{"Category", "Issue", "Platform", "Description", "Do", "Don't", "Code Example Good", "Code Example Bad", "Severity"}

// BuiltinTables returns the domain tables shipped with the knowledge base.
func BuiltinTables() map[string]Table {
	return map[string]Table{
		"style": {
			File:          "styles.csv",
			IDColumn:      "Style Category",
			SearchColumns: []string{"Style Category", "Keywords", "Best For", "Type"},
			OutputColumns: []string{"Style Category", "Type", "Primary Colors", "Effects & Animation", "Best For", "Performance", "Accessibility", "Framework Compatibility", "Complexity"},
			KeywordColumn: "Keywords",
		},
		"prompt": {
			File:          "prompts.csv",
			IDColumn:      "Style Category",
			SearchColumns: []string{"Style Category", "AI Prompt Keywords (Copy-Paste Ready)", "CSS/Technical Keywords"},
			OutputColumns: []string{"Style Category", "AI Prompt Keywords (Copy-Paste Ready)", "CSS/Technical Keywords", "Implementation Checklist"},
		},
		"color": {
			File:          "colors.csv",
			IDColumn:      "Product Type",
			SearchColumns: []string{"Product Type", "Keywords", "Notes"},
			OutputColumns: []string{"Product Type", "Primary (Hex)", "Secondary (Hex)", "CTA (Hex)", "Background (Hex)", "Text (Hex)", "Border (Hex)", "Notes"},
			KeywordColumn: "Keywords",
		},
		"chart": {
			File:          "charts.csv",
			IDColumn:      "Data Type",
			SearchColumns: []string{"Data Type", "Keywords", "Best Chart Type", "Accessibility Notes"},
			OutputColumns: []string{"Data Type", "Best Chart Type", "Secondary Options", "Color Guidance", "Accessibility Notes", "Library Recommendation", "Interactive Level"},
			KeywordColumn: "Keywords",
		},
		"landing": {
			File:          "landing.csv",
			IDColumn:      "Pattern Name",
			SearchColumns: []string{"Pattern Name", "Keywords", "Conversion Optimization", "Section Order"},
			OutputColumns: []string{"Pattern Name", "Section Order", "Primary CTA Placement", "Color Strategy", "Conversion Optimization"},
			KeywordColumn: "Keywords",
		},
		"product": {
			File:          "products.csv",
			IDColumn:      "Product Type",
			SearchColumns: []string{"Product Type", "Keywords", "Primary Style Recommendation", "Key Considerations"},
			OutputColumns: []string{"Product Type", "Primary Style Recommendation", "Secondary Styles", "Landing Page Pattern", "Dashboard Style (if applicable)", "Color Palette Focus"},
			KeywordColumn: "Keywords",
		},
		"ux": {
			File:          "ux-guidelines.csv",
			IDColumn:      "Issue",
			SearchColumns: []string{"Category", "Issue", "Description", "Platform"},
			OutputColumns: reviewColumns,
		},
		"typography": {
			File:          "typography.csv",
			IDColumn:      "Font Pairing Name",
			SearchColumns: []string{"Font Pairing Name", "Category", "Mood/Style Keywords", "Best For", "Heading Font", "Body Font"},
			OutputColumns: []string{"Font Pairing Name", "Category", "Heading Font", "Body Font", "Best For", "Google Fonts URL", "CSS Import", "Tailwind Config", "Notes"},
			KeywordColumn: "Mood/Style Keywords",
		},
		"icons": {
			File:          "icons.csv",
			IDColumn:      "Icon Name",
			SearchColumns: []string{"Category", "Icon Name", "Keywords", "Best For"},
			OutputColumns: []string{"Category", "Icon Name", "Library", "Import Code", "Usage", "Best For", "Style"},
			KeywordColumn: "Keywords",
		},
		"react": {
			File:          "react-performance.csv",
			IDColumn:      "Issue",
			SearchColumns: []string{"Category", "Issue", "Keywords", "Description"},
			OutputColumns: reviewColumns,
			KeywordColumn: "Keywords",
		},
		"web": {
			File:          "web-interface.csv",
			IDColumn:      "Issue",
			SearchColumns: []string{"Category", "Issue", "Keywords", "Description"},
			OutputColumns: reviewColumns,
			KeywordColumn: "Keywords",
		},
		"ai-chat": {
			File:          "ai-chat-patterns.csv",
			IDColumn:      "Pattern_Name",
			SearchColumns: []string{"Pattern_Name", "Category", "Description", "UX_Principle", "Use_Cases"},
			OutputColumns: []string{"Pattern_Name", "Category", "Description", "Visual_Design", "Interaction_Behavior", "Code_Example_Good", "UX_Principle", "Technical_Implementation", "Use_Cases", "Anti_Patterns", "Severity"},
		},
		"architecture": {
			File:          "architecture.csv",
			IDColumn:      "term",
			SearchColumns: []string{"term", "description", "examples", "reasoning"},
			OutputColumns: []string{"term", "description", "examples", "code_example", "reasoning", "category", "priority"},
		},
	}
}

// stackTable is the shared column shape of every stack table.
var stackTable = Table{
	IDColumn:      "Guideline",
	SearchColumns: []string{"Category", "Guideline", "Description", "Do", "Don't"},
	OutputColumns: []string{"Category", "Guideline", "Description", "Do", "Don't", "Code Good", "Code Bad", "Severity", "Docs URL"},
}

// StackTables returns the platform-specific tables. All stacks share one
// column shape and differ only in their data file.
func StackTables() map[string]Table {
	stacks := []string{
		"html-tailwind", "react", "nextjs", "vue", "nuxtjs", "nuxt-ui",
		"svelte", "swiftui", "react-native", "flutter", "shadcn",
		"jetpack-compose", "htmx-alpine-axum", "tauri",
	}
	out := make(map[string]Table, len(stacks))
	for _, name := range stacks {
		t := stackTable
		t.File = "stacks/" + name + ".csv"
		out[name] = t
	}
	return out
}

// ReasoningTable is the built-in adjustment-rule table consumed by the
// design-system advisor.
var ReasoningTable = Table{
	File:          "ui-reasoning.csv",
	IDColumn:      "UI_Category",
	SearchColumns: []string{"UI_Category", "Keywords", "Reasoning"},
	OutputColumns: []string{"UI_Category", "Keywords", "Reasoning", "Recommended_Approach", "Priority"},
	KeywordColumn: "Keywords",
}

// DomainKeywords is the curated routing table: per-domain keyword sets
// matched against free-text queries when no domain is declared.
func DomainKeywords() map[string][]string {
	return map[string][]string{
		"color":        {"color", "palette", "hex", "#", "rgb"},
		"chart":        {"chart", "graph", "visualization", "trend", "bar", "pie", "scatter", "heatmap", "funnel"},
		"landing":      {"landing", "page", "cta", "conversion", "hero", "testimonial", "pricing", "section"},
		"product":      {"saas", "ecommerce", "e-commerce", "fintech", "healthcare", "gaming", "portfolio", "crypto", "dashboard"},
		"prompt":       {"prompt", "css", "implementation", "variable", "checklist", "tailwind"},
		"style":        {"style", "design", "ui", "minimalism", "glassmorphism", "neumorphism", "brutalism", "dark mode", "flat", "aurora"},
		"ux":           {"ux", "usability", "accessibility", "wcag", "touch", "scroll", "animation", "keyboard", "navigation", "mobile"},
		"typography":   {"font", "typography", "heading", "serif", "sans"},
		"icons":        {"icon", "icons", "lucide", "heroicons", "symbol", "glyph", "pictogram", "svg icon"},
		"react":        {"react", "next.js", "nextjs", "suspense", "memo", "usecallback", "useeffect", "rerender", "bundle", "waterfall", "barrel", "dynamic import", "rsc", "server component"},
		"web":          {"aria", "focus", "outline", "semantic", "virtualize", "autocomplete", "form", "input type", "preconnect"},
		"ai-chat":      {"ai", "chat", "chatbot", "streaming", "thinking", "reasoning", "tool execution", "citation", "confidence", "uncertainty", "conversation", "branching", "multi-modal", "feedback", "error recovery", "transparency", "trust", "ai interface", "llm", "gpt", "claude"},
		"architecture": {"architecture", "clean architecture", "hexagonal", "feature", "domain", "ddd", "domain-driven", "layer", "separation", "modular", "structure", "organization", "pattern", "boundary", "aggregate", "entity", "use case", "port", "adapter", "slice"},
	}
}
