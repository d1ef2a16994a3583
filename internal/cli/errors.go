package cli

import (
	"context"
	"errors"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"
	"eskimo_admin/internal/payments"
	"eskimo_admin/internal/printer"
	"eskimo_admin/internal/session"
	"eskimo_admin/internal/users"
)

// userError carries the operator-facing message of a failed command while
// keeping the cause available to errors.Is.
type userError struct {
	err error
}

func (e *userError) Error() string {
	return friendlyError(e.err)
}

func (e *userError) Unwrap() error {
	return e.err
}

func friendlyError(err error) string {
	var apiErr *api.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrLoginRequired):
		return "Sessão expirada ou inexistente. Faça login com: eskimo-admin login --email <email>"
	case errors.Is(err, session.ErrUnknownStore):
		return "Loja desconhecida. Use efapi, palmital ou passo."
	case errors.Is(err, errForbidden), errors.Is(err, api.ErrForbidden):
		return "Sem permissão para esta operação."
	case errors.Is(err, api.ErrUnauthorized):
		return "Não autorizado: credenciais inválidas ou sessão expirada."
	case errors.Is(err, api.ErrNotFound):
		return "Registro não encontrado."
	case errors.Is(err, api.ErrMissingID):
		return "Informe o id do registro."
	case errors.Is(err, api.ErrMissingCredentials):
		return "Informe e-mail e senha."
	case errors.Is(err, users.ErrLastAdmin):
		return "Não é possível remover, desativar ou rebaixar o último administrador ativo."
	case errors.Is(err, users.ErrUnknownPreset):
		return "Perfil de permissões desconhecido. Veja: eskimo-admin users presets"
	case errors.Is(err, orders.ErrNotConfirmed):
		return "Operação cancelada."
	case errors.Is(err, orders.ErrInvalidRange):
		return "Período inválido: use datas AAAA-MM-DD com início antes do fim."
	case errors.Is(err, payments.ErrMissingAccessToken):
		return "A loja não tem access token do Mercado Pago configurado."
	case errors.Is(err, payments.ErrUnsupportedProvider):
		return "Só é possível verificar credenciais do Mercado Pago."
	case errors.Is(err, printer.ErrBridgeOffline):
		return "Impressora offline: o serviço de impressão local não respondeu."
	case errors.Is(err, errUnknownCommand):
		return "Comando desconhecido. Use --help para ver os comandos."
	case errors.Is(err, errUsage):
		return "Argumentos inválidos: " + err.Error()
	case errors.Is(err, context.Canceled):
		return "Interrompido."
	case errors.Is(err, context.DeadlineExceeded):
		return "Tempo esgotado ao falar com o servidor."
	case errors.As(err, &apiErr):
		return "Erro do servidor: " + apiErr.Status
	default:
		return err.Error()
	}
}
