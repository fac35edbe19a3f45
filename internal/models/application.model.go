package models

// FileRef points at one uploaded document file. Files staged through
// POST /api/upload carry a FileID and live in the drive root until the
// orchestrator moves them; oversized files staged in blob storage carry a
// BlobURL instead and are pulled in during placement.
type FileRef struct {
	Name        string `json:"name"`
	FileID      string `json:"fileId,omitempty"`
	WebViewLink string `json:"webViewLink,omitempty"`
	BlobURL     string `json:"blobUrl,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// FileIndex maps a document-type key to the ordered files supplied for it.
type FileIndex map[string][]FileRef

// Applicant holds the primary applicant's identity and loan request.
type Applicant struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	LoanAmount string `json:"loanAmount"`
	LoanType   string `json:"loanType"`
	Message    string `json:"message,omitempty"`
}

// CoApplicant holds the optional co-applicant's identity and income.
type CoApplicant struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Location      string `json:"location"`
	MonthlyIncome string `json:"monthlyIncome"`
}

// LoanApplication is one loan inquiry moving through the submission
// orchestrator. SessionID correlates the in-flight work with its progress
// record and is distinct from ApplicationNumber.
type LoanApplication struct {
	ApplicationNumber string       `json:"applicationNumber"`
	SessionID         string       `json:"sessionId,omitempty"`
	Applicant         Applicant    `json:"applicant"`
	CoApplicant       *CoApplicant `json:"coApplicant,omitempty"`
	ApplicantFiles    FileIndex    `json:"applicantFiles"`
	CoApplicantFiles  FileIndex    `json:"coApplicantFiles"`
	FolderLink        string       `json:"folderLink,omitempty"`
}

// HasCoApplicant reports whether a co-applicant was supplied.
func (a *LoanApplication) HasCoApplicant() bool {
	return a.CoApplicant != nil && a.CoApplicant.Name != ""
}

// FolderStructure is the result of building an application's folder tree.
// Subfolder maps only contain entries for document types that earned a
// dedicated subfolder (more than one file, or an always-subfolder type).
type FolderStructure struct {
	MainFolderID          string            `json:"mainFolderId"`
	ApplicantFolderID     string            `json:"applicantFolderId"`
	CoApplicantFolderID   string            `json:"coApplicantFolderId,omitempty"`
	ApplicantSubfolders   map[string]string `json:"applicantSubfolders"`
	CoApplicantSubfolders map[string]string `json:"coApplicantSubfolders"`
	MainFolderLink        string            `json:"mainFolderLink"`
}

// Lead is a simple contact-form inquiry, the document-free sibling of a full
// loan application.
type Lead struct {
	SubmissionID string `json:"submissionId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	LoanType     string `json:"loanType"`
	LoanAmount   string `json:"loanAmount"`
	Message      string `json:"message,omitempty"`
}
