package flash

const (
	ClassError   = "error"
	ClassInfo    = "info"
	ClassSuccess = "success"
	ClassWarning = "warning"
)

const (
	BadCredsMsg   = "Hmm... check those credentials."
	BadInputMsg   = "Hmm... check your form, something isn't correct."
	DefaultErrMsg = "Uh oh! We've run into an issue."
	NoAccessMsg   = "Oops, sending you back somewhere safe."
	LoggedOutMsg  = "You have been logged out."
	WelcomeMsg    = "Welcome back, %s!"
)

// A Flash is a notice shown to the operator on the next page rendered.
type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}

func Error(msg string) Flash   { return Flash{Class: ClassError, Msg: msg} }
func Info(msg string) Flash    { return Flash{Class: ClassInfo, Msg: msg} }
func Success(msg string) Flash { return Flash{Class: ClassSuccess, Msg: msg} }
func Warning(msg string) Flash { return Flash{Class: ClassWarning, Msg: msg} }
