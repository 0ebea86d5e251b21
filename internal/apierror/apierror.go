// Package apierror padroniza o envelope de erro das respostas HTTP.
// Todo erro 4xx/5xx passa por aqui — nunca vazamos stack trace ou
// detalhe interno de banco para o cliente.
package apierror

// APIError é o envelope canônico de erro.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError agrupa erros por campo.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}
