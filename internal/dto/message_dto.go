package dto

// DiagnosisNoticeMessage is the payload published after a diagnosis is
// written, consumed by the notification worker.
type DiagnosisNoticeMessage struct {
	CaseId    string `json:"case_id"`
	Email     string `json:"email"`
	Diagnosis string `json:"diagnosis"`
}
