package backend

// Operation names a backend endpoint. It is used in errors and logs.
type Operation string

const (
	OpSelectFolder     Operation = "select-folder"
	OpGeneratePrompt   Operation = "generate-prompt"
	OpGenerateImage    Operation = "generate-image"
	OpPushToTV         Operation = "push-to-tv"
	OpListLocalImages  Operation = "list-local-images"
	OpCheckTVIP        Operation = "check-tv-ip"
	OpTestTVConnection Operation = "test-tv-connection"
	OpSaveSettings     Operation = "save-settings"
)

// Path returns the endpoint path for the operation.
func (op Operation) Path() string {
	return "/api/" + string(op)
}

// Envelope is the part every backend response shares.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *Envelope) envelope() *Envelope { return e }

// response is implemented by every endpoint response through its embedded Envelope.
type response interface {
	envelope() *Envelope
}

// validator is implemented by responses that carry a required field.
type validator interface {
	validate() bool
}

// FolderResponse is returned by select-folder.
type FolderResponse struct {
	Envelope
	FolderPath string `json:"folderPath"`
}

func (r *FolderResponse) validate() bool { return r.FolderPath != "" }

// PromptResponse is returned by generate-prompt.
type PromptResponse struct {
	Envelope
	Prompt string `json:"prompt"`
}

func (r *PromptResponse) validate() bool { return r.Prompt != "" }

// ImageResponse is returned by generate-image.
type ImageResponse struct {
	Envelope
	ImageURL string `json:"imageUrl"`
}

func (r *ImageResponse) validate() bool { return r.ImageURL != "" }

// ImageListResponse is returned by list-local-images. An empty list is
// valid; a missing one is not.
type ImageListResponse struct {
	Envelope
	Images []string `json:"images"`
}

func (r *ImageListResponse) validate() bool { return r.Images != nil }

// StatusResponse is returned by endpoints that only report success.
type StatusResponse struct {
	Envelope
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type pushRequest struct {
	ImageURL string `json:"imageUrl"`
	TVIP     string `json:"tvIp"`
}

type tvRequest struct {
	TVIP string `json:"tvIp"`
}

type settingsRequest struct {
	TVIP        string `json:"tvIp"`
	ImageFolder string `json:"imageFolder"`
}
