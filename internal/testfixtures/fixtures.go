package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/persistence"
)

var (
	pessoaCounter    uint64
	sociedadeCounter uint64
	eventoCounter    uint64
	usuarioCounter   uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ---------------------------- Pessoa fixtures ----------------------------

// PessoaFixture represents a deterministic person record that can be
// materialised for application or persistence tests.
type PessoaFixture struct {
	Name         string
	TipoPessoaID *int64
	BirthDate    *string
	Phone        *string
	Email        *string
	Address      *string
	Active       bool
}

// PessoaOption configures the generated person fixture.
type PessoaOption func(*PessoaFixture)

// NewPessoaFixture returns a deterministic person fixture with optional overrides.
func NewPessoaFixture(opts ...PessoaOption) PessoaFixture {
	idx := atomic.AddUint64(&pessoaCounter, 1)
	fixture := PessoaFixture{
		Name:   fmt.Sprintf("Pessoa %03d", idx),
		Email:  ptrTo(fmt.Sprintf("pessoa%03d@igreja.org", idx)),
		Active: true,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithPessoaName overrides the generated name.
func WithPessoaName(name string) PessoaOption {
	return func(f *PessoaFixture) {
		f.Name = name
	}
}

// WithPessoaBirthDate sets dtnascimento as AAAA-MM-DD.
func WithPessoaBirthDate(date string) PessoaOption {
	return func(f *PessoaFixture) {
		f.BirthDate = ptrTo(date)
	}
}

// WithPessoaTipo sets the person type.
func WithPessoaTipo(id int64) PessoaOption {
	return func(f *PessoaFixture) {
		f.TipoPessoaID = &id
	}
}

// WithPessoaPhone sets the phone number.
func WithPessoaPhone(phone string) PessoaOption {
	return func(f *PessoaFixture) {
		f.Phone = ptrTo(phone)
	}
}

// WithoutPessoaEmail clears the generated email.
func WithoutPessoaEmail() PessoaOption {
	return func(f *PessoaFixture) {
		f.Email = nil
	}
}

// WithPessoaActive sets the active flag.
func WithPessoaActive(active bool) PessoaOption {
	return func(f *PessoaFixture) {
		f.Active = active
	}
}

// Input returns the fixture as an application.PessoaInput.
func (f PessoaFixture) Input() application.PessoaInput {
	active := f.Active
	return application.PessoaInput{
		Name:         f.Name,
		TipoPessoaID: f.TipoPessoaID,
		BirthDate:    copyStringPtr(f.BirthDate),
		Phone:        copyStringPtr(f.Phone),
		Email:        copyStringPtr(f.Email),
		Address:      copyStringPtr(f.Address),
		Active:       &active,
	}
}

// Persistence returns the fixture as a persistence.Pessoa stamped at ReferenceTime.
func (f PessoaFixture) Persistence() persistence.Pessoa {
	stamp := persistence.NewTimestamp(referenceTime)
	return persistence.Pessoa{
		Name:         f.Name,
		TipoPessoaID: f.TipoPessoaID,
		BirthDate:    copyStringPtr(f.BirthDate),
		Phone:        copyStringPtr(f.Phone),
		Email:        copyStringPtr(f.Email),
		Address:      copyStringPtr(f.Address),
		Active:       f.Active,
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
}

// -------------------------- Sociedade fixtures ---------------------------

// SociedadeFixture represents a deterministic society record.
type SociedadeFixture struct {
	Name    string
	Acronym *string
	Active  bool
}

// SociedadeOption configures the generated society fixture.
type SociedadeOption func(*SociedadeFixture)

// NewSociedadeFixture returns a deterministic society fixture with optional overrides.
func NewSociedadeFixture(opts ...SociedadeOption) SociedadeFixture {
	idx := atomic.AddUint64(&sociedadeCounter, 1)
	fixture := SociedadeFixture{
		Name:    fmt.Sprintf("Sociedade %03d", idx),
		Acronym: ptrTo(fmt.Sprintf("S%03d", idx)),
		Active:  true,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSociedadeName overrides the generated name.
func WithSociedadeName(name string) SociedadeOption {
	return func(f *SociedadeFixture) {
		f.Name = name
	}
}

// WithSociedadeActive sets the active flag.
func WithSociedadeActive(active bool) SociedadeOption {
	return func(f *SociedadeFixture) {
		f.Active = active
	}
}

// Input returns the fixture as an application.SociedadeInput.
func (f SociedadeFixture) Input() application.SociedadeInput {
	active := f.Active
	return application.SociedadeInput{Name: f.Name, Acronym: copyStringPtr(f.Acronym), Active: &active}
}

// Persistence returns the fixture as a persistence.Sociedade stamped at ReferenceTime.
func (f SociedadeFixture) Persistence() persistence.Sociedade {
	stamp := persistence.NewTimestamp(referenceTime)
	return persistence.Sociedade{
		Name:      f.Name,
		Acronym:   copyStringPtr(f.Acronym),
		Active:    f.Active,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
}

// ---------------------------- Evento fixtures ----------------------------

// EventoFixture represents a deterministic event record.
type EventoFixture struct {
	Name         string
	Date         string
	Time         string
	TipoEventoID *int64
	SociedadeID  *int64
	Active       bool
}

// EventoOption configures the generated event fixture.
type EventoOption func(*EventoFixture)

// NewEventoFixture returns a deterministic event fixture dated on the days
// following ReferenceTime.
func NewEventoFixture(opts ...EventoOption) EventoFixture {
	idx := atomic.AddUint64(&eventoCounter, 1)
	fixture := EventoFixture{
		Name:   fmt.Sprintf("Evento %03d", idx),
		Date:   referenceTime.AddDate(0, 0, int(idx)).Format("2006-01-02"),
		Time:   "19:00",
		Active: true,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventoName overrides the generated name.
func WithEventoName(name string) EventoOption {
	return func(f *EventoFixture) {
		f.Name = name
	}
}

// WithEventoSchedule sets dtevento and horaevento.
func WithEventoSchedule(date, clock string) EventoOption {
	return func(f *EventoFixture) {
		f.Date = date
		f.Time = clock
	}
}

// WithEventoSociedade attaches the event to a society.
func WithEventoSociedade(id int64) EventoOption {
	return func(f *EventoFixture) {
		f.SociedadeID = &id
	}
}

// WithEventoTipo sets the event type.
func WithEventoTipo(id int64) EventoOption {
	return func(f *EventoFixture) {
		f.TipoEventoID = &id
	}
}

// WithEventoActive sets the active flag.
func WithEventoActive(active bool) EventoOption {
	return func(f *EventoFixture) {
		f.Active = active
	}
}

// Input returns the fixture as an application.EventoInput.
func (f EventoFixture) Input() application.EventoInput {
	active := f.Active
	return application.EventoInput{
		Name:         f.Name,
		Date:         f.Date,
		Time:         f.Time,
		TipoEventoID: f.TipoEventoID,
		SociedadeID:  f.SociedadeID,
		Active:       &active,
	}
}

// Persistence returns the fixture as a persistence.Evento stamped at ReferenceTime.
func (f EventoFixture) Persistence() persistence.Evento {
	stamp := persistence.NewTimestamp(referenceTime)
	return persistence.Evento{
		Name:         f.Name,
		Date:         f.Date,
		Time:         f.Time,
		TipoEventoID: f.TipoEventoID,
		SociedadeID:  f.SociedadeID,
		Active:       f.Active,
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
}

// ---------------------------- Usuario fixtures ---------------------------

// UsuarioFixture represents a deterministic account. Password is the plain
// text the account accepts.
type UsuarioFixture struct {
	Login    string
	Password string
	PessoaID *int64
	Active   bool
}

// UsuarioOption configures the generated account fixture.
type UsuarioOption func(*UsuarioFixture)

// NewUsuarioFixture returns a deterministic account fixture with optional overrides.
func NewUsuarioFixture(opts ...UsuarioOption) UsuarioFixture {
	idx := atomic.AddUint64(&usuarioCounter, 1)
	fixture := UsuarioFixture{
		Login:    fmt.Sprintf("usuario%03d", idx),
		Password: fmt.Sprintf("senha-%03d", idx),
		Active:   true,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUsuarioLogin overrides the generated login.
func WithUsuarioLogin(login string) UsuarioOption {
	return func(f *UsuarioFixture) {
		f.Login = login
	}
}

// WithUsuarioPassword overrides the generated password.
func WithUsuarioPassword(password string) UsuarioOption {
	return func(f *UsuarioFixture) {
		f.Password = password
	}
}

// WithUsuarioPessoa links the account to a person.
func WithUsuarioPessoa(id int64) UsuarioOption {
	return func(f *UsuarioFixture) {
		f.PessoaID = &id
	}
}

// WithUsuarioActive sets the active flag.
func WithUsuarioActive(active bool) UsuarioOption {
	return func(f *UsuarioFixture) {
		f.Active = active
	}
}

// Input returns the fixture as an application.UsuarioInput.
func (f UsuarioFixture) Input() application.UsuarioInput {
	active := f.Active
	return application.UsuarioInput{Login: f.Login, Password: f.Password, PessoaID: f.PessoaID, Active: &active}
}

// Credentials returns the login parameters accepted by the account.
func (f UsuarioFixture) Credentials() application.LoginParams {
	return application.LoginParams{Login: f.Login, Password: f.Password}
}

// Persistence returns the fixture as a persistence.Usuario carrying hash as
// the stored password.
func (f UsuarioFixture) Persistence(hash string) persistence.Usuario {
	stamp := persistence.NewTimestamp(referenceTime)
	return persistence.Usuario{
		Login:        f.Login,
		PasswordHash: hash,
		PessoaID:     f.PessoaID,
		Active:       f.Active,
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
}

func ptrTo[T any](v T) *T {
	return &v
}

// helper to deep copy optional strings.
func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
