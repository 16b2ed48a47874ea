package descriptions

import "sort"

// Tool descriptions with practical examples

const (
	PassportValidateDescription = `Check one section of a passport application, or the whole record, and list every problem.

**When to use:** Before filling, or after each step of data entry, to see which fields still need attention.

**Why it's useful:** Every field is checked independently, so a single call reports all problems at once, keyed by field path (e.g. "homeAddress.street").

**Examples:**
• Check the applicant step: section "applicant" with the record JSON
• Check everything before generating: section "record"

**Sections:** passportType, applicant, father, mother, record

**Best practices:** Fix every reported path, then validate the "record" section once more before calling passport_fill.`

	PassportFillDescription = `Fill the FSM passport application template with a record and save the finished PDF.

**When to use:** The record validates cleanly and the applicant is ready to print, sign and notarize.

**Why it's useful:** Values are drawn onto the official form layout in upper case (email keeps its case), checkmarks are stroked into the right boxes, and the result is made non-editable.

**Examples:**
• Generate the application: record JSON with every required field → PassportApplication_ROBERT_SAU_20260221.pdf

**Common workflows:**
1. passport_validate (record) → fix problems → passport_fill → passport_inspect to double check

**Best practices:** Invalid records are refused with the list of problems. Field-level issues on the template are reported as warnings and do not stop the fill.`

	PassportFilenameDescription = `Derive the download name for a record: PassportApplication_<LAST>_<FIRST>_<YYYYMMDD>.pdf.

**When to use:** Need the name the filled document will be saved under.

**Examples:**
• "De La Cruz", "Ana Maria" on 2026-02-21 → PassportApplication_DELACRUZ_ANAMARIA_20260221.pdf
• Empty names → PassportApplication_UNKNOWN_UNKNOWN_<date>.pdf`

	PassportInspectDescription = `Read back a filled PDF from the output directory: page count, form fields with their read-only state, and optionally page text.

**When to use:** Confirm a generated document contains the expected values and that its form layer is locked or gone.

**Examples:**
• Inspect the last fill: name "PassportApplication_ROBERT_SAU_20260221.pdf", text true

**Best practices:** Only files inside the configured output directory can be inspected.`

	PassportServerInfoDescription = `Get server status: version, template source, field registry, output directory, finalize strategy and available tools.

**When to use:** Starting a session or troubleshooting a failed fill.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"passport_validate":    PassportValidateDescription,
	"passport_fill":        PassportFillDescription,
	"passport_filename":    PassportFilenameDescription,
	"passport_inspect":     PassportInspectDescription,
	"passport_server_info": PassportServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the available tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
