package types

import "time"

type ProgressStatus string

const (
	ProgressPreparing  ProgressStatus = "preparing"
	ProgressUploading  ProgressStatus = "uploading"
	ProgressProcessing ProgressStatus = "processing"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressError      ProgressStatus = "error"
)

type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepCompleted  StepStatus = "completed"
	StepError      StepStatus = "error"
)

// Named phases of one submission, in execution order.
const (
	StepCreatingFolders = "Creating Folders"
	StepApplicantDocs   = "Processing Applicant Documents"
	StepCoApplicantDocs = "Processing Co-Applicant Documents"
	StepFinalizing      = "Finalizing"
)

// ProgressFile is one per-file sub-entry of a step.
type ProgressFile struct {
	Name         string `json:"name"`
	Folder       string `json:"folder,omitempty"`
	IsProcessing bool   `json:"isProcessing"`
}

// ProgressStep tracks one named phase of the submission.
type ProgressStep struct {
	Name   string         `json:"name"`
	Status StepStatus     `json:"status"`
	Files  []ProgressFile `json:"files"`
	Error  string         `json:"error,omitempty"`
}

// ProgressRecord tracks one in-flight upload session, keyed by session id.
type ProgressRecord struct {
	TotalFiles    int            `json:"totalFiles"`
	UploadedFiles int            `json:"uploadedFiles"`
	CurrentFile   string         `json:"currentFile"`
	CurrentStep   string         `json:"currentStep"`
	Status        ProgressStatus `json:"status"`
	Percentage    int            `json:"percentage"`
	Steps         []ProgressStep `json:"steps"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ProgressUpdate is one mutation applied to a progress record.
type ProgressUpdate struct {
	FileName string
	Step     string
	Status   ProgressStatus
	Folder   string
	Error    string
}
