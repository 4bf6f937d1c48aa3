package application

import (
	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

// PessoaInput captures the fields accepted when creating a person.
type PessoaInput struct {
	Name         string
	TipoPessoaID *int64
	Photo        *string
	BirthDate    *string
	Phone        *string
	Email        *string
	Address      *string
	Active       *bool
}

// PessoaPatch lists the person fields a partial update may touch.
type PessoaPatch struct {
	Name         patch.Field[string]
	TipoPessoaID patch.Field[int64]
	Photo        patch.Field[string]
	BirthDate    patch.Field[string]
	Phone        patch.Field[string]
	Email        patch.Field[string]
	Address      patch.Field[string]
	Active       patch.Field[bool]
}

// PessoaDetails is a person view with the age derived at read time.
type PessoaDetails struct {
	persistence.PessoaView
	Age *int
}

// SociedadeInput captures the fields accepted when creating a society.
type SociedadeInput struct {
	Name        string
	Acronym     *string
	Description *string
	Active      *bool
}

// SociedadePatch lists the society fields a partial update may touch.
type SociedadePatch struct {
	Name        patch.Field[string]
	Acronym     patch.Field[string]
	Description patch.Field[string]
	Active      patch.Field[bool]
}

// PessoaSociedadeInput captures a new membership link.
type PessoaSociedadeInput struct {
	PessoaID    *int64
	SociedadeID *int64
	Role        *string
	RoleTypeID  *int64
	JoinedOn    *string
}

// PessoaSociedadePatch lists the link fields a partial update may touch.
// An empty patch deactivates the link.
type PessoaSociedadePatch struct {
	Role       patch.Field[string]
	RoleTypeID patch.Field[int64]
	JoinedOn   patch.Field[string]
	Active     patch.Field[bool]
}

// Empty reports whether no key was sent.
func (p PessoaSociedadePatch) Empty() bool {
	return !p.Role.Set && !p.RoleTypeID.Set && !p.JoinedOn.Set && !p.Active.Set
}

// EventoInput captures the fields accepted when creating an event.
type EventoInput struct {
	Name         string
	Date         string
	Time         string
	TipoEventoID *int64
	SociedadeID  *int64
	Address      *string
	Description  *string
	Image        *string
	Active       *bool
}

// EventoPatch lists the event fields a partial update may touch.
type EventoPatch struct {
	Name         patch.Field[string]
	TipoEventoID patch.Field[int64]
	Date         patch.Field[string]
	Time         patch.Field[string]
	Address      patch.Field[string]
	SociedadeID  patch.Field[int64]
	Description  patch.Field[string]
	Image        patch.Field[string]
	Active       patch.Field[bool]
}

// ConselhoInput captures a new council entry.
type ConselhoInput struct {
	PessoaID  *int64
	StartDate string
	EndDate   *string
	Notes     *string
	Active    *bool
}

// ConselhoPatch lists the council fields a partial update may touch.
type ConselhoPatch struct {
	PessoaID  patch.Field[int64]
	StartDate patch.Field[string]
	EndDate   patch.Field[string]
	Notes     patch.Field[string]
	Active    patch.Field[bool]
}

// UsuarioInput captures a new account. Password is plain text.
type UsuarioInput struct {
	Login    string
	Password string
	PessoaID *int64
	Active   *bool
}

// UsuarioPatch lists the account fields a partial update may touch.
type UsuarioPatch struct {
	Login    patch.Field[string]
	Password patch.Field[string]
	PessoaID patch.Field[int64]
	Active   patch.Field[bool]
}

// LoginParams carries the credentials of a login attempt.
type LoginParams struct {
	Login    string
	Password string
}

// LoginResult is the account that logged in plus the linked person's name.
type LoginResult struct {
	Usuario    persistence.Usuario
	PessoaName *string
}

// UploadTarget selects the record an uploaded file is attached to.
type UploadTarget string

const (
	UploadPessoa UploadTarget = "pessoa"
	UploadEvento UploadTarget = "evento"
)

// DashboardSummary holds the aggregate counters of the home screen.
type DashboardSummary struct {
	TotalMembros        int
	TotalEventosMes     int
	AniversariantesMes  int
	ConselhoAtivo       int
	MembrosPorSociedade []persistence.SociedadeMemberCount
}
