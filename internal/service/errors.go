package service

// ValidationError 可以原样返回给调用方的校验错误
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

var (
	ErrInvalidAmount       = invalid("valor inválido")
	ErrBelowMinDeposit     = invalid("valor abaixo do depósito mínimo")
	ErrBelowMinWithdrawal  = invalid("valor abaixo do saque mínimo")
	ErrInsufficientBalance = invalid("saldo insuficiente")
	ErrInvalidKeyType      = invalid("tipo de chave pix inválido")
	ErrMissingKeyValue     = invalid("chave pix obrigatória")
	ErrMissingTransaction  = invalid("secureId obrigatório")
	ErrDuplicateDeposit    = invalid("transação já registrada")
	ErrInvalidEmail        = invalid("email inválido")
	ErrEmailTaken          = invalid("email já cadastrado")
	ErrWeakPassword        = invalid("senha deve ter pelo menos 8 caracteres")
	ErrReloadRateLimited   = invalid("aguarde antes de recarregar o saldo demo novamente")
)
