package coding

// icd10Catalog is the demo diagnosis code set. A production deployment
// would load the full code tables from the payer or a terminology service.
var icd10Catalog = []ICD10Code{
	{Code: "Z00.00", Description: "Encounter for general adult medical examination without abnormal findings"},
	{Code: "M79.3", Description: "Panniculitis, unspecified"},
	{Code: "G43.909", Description: "Migraine, unspecified, not intractable, without status migrainosus"},
	{Code: "I10", Description: "Essential (primary) hypertension"},
	{Code: "E11.9", Description: "Type 2 diabetes mellitus without complications"},
	{Code: "J44.1", Description: "Chronic obstructive pulmonary disease with acute exacerbation"},
	{Code: "N39.0", Description: "Urinary tract infection, site not specified"},
	{Code: "K21.9", Description: "Gastro-esophageal reflux disease without esophagitis"},
	{Code: "F32.9", Description: "Major depressive disorder, single episode, unspecified"},
	{Code: "Z12.11", Description: "Encounter for screening for malignant neoplasm of colon"},
}

// cptCatalog is the demo procedure code set with relative value units.
var cptCatalog = []CPTCode{
	{Code: "99213", Description: "Office visit, established patient, low complexity", RVU: 1.3},
	{Code: "99214", Description: "Office visit, established patient, moderate complexity", RVU: 1.92},
	{Code: "99215", Description: "Office visit, established patient, high complexity", RVU: 2.8},
	{Code: "73060", Description: "Radiologic examination, knee, 1 or 2 views", RVU: 0.22},
	{Code: "70553", Description: "MRI brain without and with contrast", RVU: 2.29},
	{Code: "76092", Description: "Screening mammography, bilateral", RVU: 0.7},
	{Code: "93000", Description: "Electrocardiogram, routine ECG with interpretation and report", RVU: 0.17},
	{Code: "80053", Description: "Comprehensive metabolic panel", RVU: 0.05},
	{Code: "85025", Description: "Complete blood count with automated differential", RVU: 0.05},
	{Code: "36415", Description: "Collection of venous blood by venipuncture", RVU: 0.02},
}

var (
	icd10ByCode = func() map[string]ICD10Code {
		m := make(map[string]ICD10Code, len(icd10Catalog))
		for _, c := range icd10Catalog {
			m[c.Code] = c
		}
		return m
	}()

	cptByCode = func() map[string]CPTCode {
		m := make(map[string]CPTCode, len(cptCatalog))
		for _, c := range cptCatalog {
			m[c.Code] = c
		}
		return m
	}()
)

// KnownICD10 reports whether the code exists in the diagnosis catalog.
func KnownICD10(code string) bool {
	_, ok := icd10ByCode[code]
	return ok
}

// KnownCPT reports whether the code exists in the procedure catalog.
func KnownCPT(code string) bool {
	_, ok := cptByCode[code]
	return ok
}
