package models

// Document describes one entry of the document classification registry.
type Document struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	Required        bool   `json:"required"`
	AlwaysSubfolder bool   `json:"alwaysSubfolder"`
}

// ApplicantDocuments is the registry of documents collected from the primary
// applicant. property_photos_and_videos always gets its own subfolder
// regardless of file count.
var ApplicantDocuments = []Document{
	{Key: "pan", Name: "PAN Card", Required: true},
	{Key: "aadhaar", Name: "Aadhaar Card", Required: true},
	{Key: "photos", Name: "Photographs"},
	{Key: "bank_statement", Name: "Bank Statement"},
	{Key: "itr", Name: "ITR"},
	{Key: "gst", Name: "GST Returns"},
	{Key: "loan_history", Name: "Loan History"},
	{Key: "property_docs", Name: "Property Documents"},
	{Key: "property_photos_and_videos", Name: "Property Photos and Videos", AlwaysSubfolder: true},
	{Key: "other", Name: "Other Documents"},
}

// CoApplicantDocuments is the registry of documents collected from the
// co-applicant. No always-subfolder exception on this side.
var CoApplicantDocuments = []Document{
	{Key: "co_pan", Name: "PAN Card", Required: true},
	{Key: "co_aadhaar", Name: "Aadhaar Card", Required: true},
	{Key: "co_photos", Name: "Photographs"},
	{Key: "co_income", Name: "Income Proof"},
}

func findDocument(registry []Document, key string) (Document, bool) {
	for _, doc := range registry {
		if doc.Key == key {
			return doc, true
		}
	}
	return Document{}, false
}

// FindApplicantDocument looks up an applicant document type by key.
func FindApplicantDocument(key string) (Document, bool) {
	return findDocument(ApplicantDocuments, key)
}

// FindCoApplicantDocument looks up a co-applicant document type by key.
func FindCoApplicantDocument(key string) (Document, bool) {
	return findDocument(CoApplicantDocuments, key)
}
