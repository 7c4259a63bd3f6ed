package platform

// Typer emits text into the foreground application as keystrokes
type Typer interface {
	Type(text string) error
}

// Notifier shows a modal message to the user. Alert blocks until the
// message is dismissed.
type Notifier interface {
	Alert(title, message string)
}
