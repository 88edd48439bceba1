package editor

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewSlides ViewMode = iota
	ViewFields
	ViewEdit
	ViewHelp
	ViewConfirm
)

// SavedMsg reports a successful save
type SavedMsg struct {
	Path string
}

// SaveErrorMsg reports a failed save
type SaveErrorMsg struct {
	Err error
}

// ErrorMsg shows a message in the error banner
type ErrorMsg struct {
	Message string
}

// ClearErrorMsg dismisses the error banner
type ClearErrorMsg struct{}
