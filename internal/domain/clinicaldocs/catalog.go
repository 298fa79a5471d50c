package clinicaldocs

// Categories the template catalog is grouped into.
var Categories = []string{"general", "inpatient", "specialty", "emergency"}

// templates is the static note catalog. Adding a template here is all it
// takes to offer it in the UI.
var templates = map[string]*Template{
	"progress_note": {
		ID:          "progress_note",
		Name:        "Progress Note",
		Category:    "general",
		Description: "Routine visit documentation in SOAP format",
		Sections:    []string{"chief_complaint", "history_of_present_illness", "review_of_systems", "physical_exam", "assessment", "plan"},
	},
	"discharge_summary": {
		ID:          "discharge_summary",
		Name:        "Discharge Summary",
		Category:    "inpatient",
		Description: "Hospital stay summary for the receiving provider",
		Sections:    []string{"admission_diagnosis", "hospital_course", "discharge_diagnosis", "discharge_medications", "follow_up_instructions"},
	},
	"consultation_note": {
		ID:          "consultation_note",
		Name:        "Consultation Note",
		Category:    "specialty",
		Description: "Specialist opinion back to the referring provider",
		Sections:    []string{"reason_for_consultation", "history", "examination", "impression", "recommendations"},
	},
}

// TemplateByID returns a catalog template, or nil when unknown.
func TemplateByID(id string) *Template {
	return templates[id]
}

// AllTemplates returns the catalog in a stable order.
func AllTemplates() []*Template {
	return []*Template{
		templates["progress_note"],
		templates["discharge_summary"],
		templates["consultation_note"],
	}
}
