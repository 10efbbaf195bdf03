package mailer

import "fmt"

type ErrorCode string

const (
	ErrCodeTemplateExecution ErrorCode = "TEMPLATE_EXECUTION"
	ErrCodeNetworkFailure    ErrorCode = "NETWORK_FAILURE"
	ErrCodeInvalidRecipient  ErrorCode = "INVALID_RECIPIENT"
)

type MailerError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Err       error
}

func (e *MailerError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *MailerError) Unwrap() error { return e.Err }

func newTemplateError(name string, err error) *MailerError {
	return &MailerError{
		Code:      ErrCodeTemplateExecution,
		Message:   fmt.Sprintf("failed to execute template %s", name),
		Retryable: false,
		Err:       err,
	}
}

func newNetworkError(op string, err error) *MailerError {
	return &MailerError{
		Code:      ErrCodeNetworkFailure,
		Message:   fmt.Sprintf("network failure during %s", op),
		Retryable: true,
		Err:       err,
	}
}

func newRecipientError(addr string, err error) *MailerError {
	return &MailerError{
		Code:      ErrCodeInvalidRecipient,
		Message:   fmt.Sprintf("invalid recipient %s", addr),
		Retryable: false,
		Err:       err,
	}
}
