package core

// Logger is any structured logger the apps can report to.
// args may contain errors, map[string]interface{} extras and one session user.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
