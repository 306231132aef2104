package constant

// AllowedDiagnoses is the closed vocabulary the reasoning model must pick
// its primary diagnosis from. The list is part of the prompt contract and
// mirrors the labels the case corpus was built against.
const AllowedDiagnoses = "acute copd exacerbation infection, bronchiectasis, bronchiolitis, bronchitis, bronchospasm acute asthma exacerbation, pulmonary embolism, pulmonary neoplasm, spontaneous pneumothorax, urti, viral pharyngitis, whooping cough, acute laryngitis, acute pulmonary edema, croup, larygospasm, epiglottitis, pneumonia, atrial fibrillation, myocarditis, pericarditis, psvt, possible nstemi stemi, stable angina, unstable angina, gerd, boerhaave syndrome, pancreatic neoplasm, scombroid food poisoning, inguinal hernia, tuberculosis, hiv initial infection, ebola, influenza, chagas, acute otitis media, acute rhinosinusitis, allergic sinusitis, chronic rhinosinusitis, myasthenia gravis, guillain barre syndrome, cluster headache, acute dystonic reactions, sle, sarcoidosis, anaphylaxis, panic attack, spontaneous rib fracture, anemia"

// Section markers emitted by the diagnostic prompt template and parsed back
// by the diagnosis extractor. Both sides read these constants; changing one
// without the other breaks the round trip.
const (
	SectionDiagnoses = "### Diagnoses"
	SectionFollowUp  = "### Follow-up Questions"
	SectionTests     = "### Tests"
	SectionTreatment = "### Treatment"
	SectionPrefix    = "###"
)

// Pipeline limits. Context and history windows are fixed caps, independent
// of how wide the retrieval net is cast.
const (
	ContextFragmentLimit = 3
	HistoryWindowSize    = 3
	DefaultRetrievalK    = 5
	MaxRetrievalK        = 50

	DiagnoseMaxOutputTokens = 400
	ChatMaxOutputTokens     = 250
)

// UnknownDiagnosis is the sentinel label when the model response carries no
// Diagnoses section.
const UnknownDiagnosis = "Unknown"

// FixedConfidence is the heuristic confidence assigned to every diagnosis.
// It is not model-derived.
const FixedConfidence = 85.0

// Case status values.
const (
	CaseStatusPending   = "pending"
	CaseStatusDiagnosed = "diagnosed"
)
