package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldCount      = "count"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldReason     = "reason"

	FieldConcept    = "concept"
	FieldPayer      = "payer"
	FieldNames      = "names"
	FieldQuery      = "query"
	FieldPatient    = "patient"
	FieldPatientID  = "patient_id"
	FieldScore      = "score"
	FieldCandidates = "candidates"
	FieldAmount     = "amount"
	FieldSessions   = "sessions"
	FieldDate       = "date"
	FieldRow        = "row"

	FieldYear    = "year"
	FieldQuarter = "quarter"
	FieldFormat  = "format"
)
