package models

// PatientRecord is an entry of the practice's patient roster.
type PatientRecord struct {
	FullName string `csv:"Full Name" json:"full_name"`
	IDNumber string `csv:"ID Number" json:"id_number"`
}

// IsEmpty returns true if the record has neither a name nor an identifier
func (p PatientRecord) IsEmpty() bool {
	return p.FullName == "" && p.IDNumber == ""
}
