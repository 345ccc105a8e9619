package usecase

// Stage names a step of a pipeline run.
type Stage string

const (
	StageInit     Stage = "init"
	StageTopics   Stage = "topics"
	StageKeyword  Stage = "keyword"
	StageResearch Stage = "research"
	StageGenerate Stage = "generate"
	StageFormat   Stage = "format"
	StagePersist  Stage = "persist"
	StagePublish  Stage = "publish"
	StageDone     Stage = "done"
	StageFailed   Stage = "failed"
)

// Result is the outcome of one pipeline run. On failure Stage is the step
// that failed and Error carries its message.
type Result struct {
	Success      bool    `json:"success"`
	PostID       string  `json:"postId,omitempty"`
	Title        string  `json:"title,omitempty"`
	Keyword      string  `json:"keyword,omitempty"`
	Score        float64 `json:"score,omitempty"`
	Published    bool    `json:"published"`
	PublishedURL string  `json:"publishedUrl,omitempty"`
	Error        string  `json:"error,omitempty"`
	Stage        Stage   `json:"stage"`
}

// Failure builds a failed result for stage.
func Failure(stage Stage, err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Success: false, Error: msg, Stage: stage}
}
