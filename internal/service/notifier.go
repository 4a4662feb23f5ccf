package service

import "rentacar-backend/internal/logger"

// StaticNotifier answers Confirm with a pre-decided value. The HTTP layer
// builds one from the request's confirmation flag, since a web request
// cannot pause to ask the operator mid-flight.
type StaticNotifier struct {
	ConfirmAnswer bool
}

func (n StaticNotifier) Alert(msg string) {
	logger.Info("operator alert", "message", msg)
}

func (n StaticNotifier) Confirm(msg string) bool {
	logger.Info("operator confirmation requested", "message", msg, "answer", n.ConfirmAnswer)
	return n.ConfirmAnswer
}
