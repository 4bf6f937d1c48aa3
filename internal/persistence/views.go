package persistence

// PessoaView is a person joined with the person-type name. Links holds the
// person's active society memberships and is filled by a second query.
type PessoaView struct {
	Pessoa
	TipoPessoaName *string `db:"nmtipopessoa"`

	Links []SociedadeLinkView `db:"-"`
}

// SociedadeLinkView is a membership link joined with its society and role type.
type SociedadeLinkView struct {
	PessoaSociedade
	SociedadeName    string  `db:"nmsociedade"`
	SociedadeAcronym *string `db:"sigla"`
	RoleTypeName     *string `db:"nmcargo"`
}

// RoleLabel prefers the catalog role name and falls back to the free-text role.
func (v SociedadeLinkView) RoleLabel() *string {
	if v.RoleTypeName != nil && *v.RoleTypeName != "" {
		return v.RoleTypeName
	}
	if v.Role != nil && *v.Role != "" {
		return v.Role
	}
	return nil
}

// MembroView is a society membership joined with a summary of the person.
type MembroView struct {
	PessoaSociedade
	RoleTypeName *string `db:"nmcargo"`
	PessoaName   string  `db:"pessoa_nmpessoa"`
	PessoaPhoto  *string `db:"pessoa_fotopessoa"`
	PessoaPhone  *string `db:"pessoa_telefone"`
	PessoaEmail  *string `db:"pessoa_email"`
}

// RoleLabel prefers the catalog role name and falls back to the free-text role.
func (v MembroView) RoleLabel() *string {
	return SociedadeLinkView{PessoaSociedade: v.PessoaSociedade, RoleTypeName: v.RoleTypeName}.RoleLabel()
}

// EventoView is an event joined with its type and society names.
type EventoView struct {
	Evento
	TipoEventoName   *string `db:"nmtipoevento"`
	SociedadeName    *string `db:"nmsociedade"`
	SociedadeAcronym *string `db:"sigla"`
}

// ConselhoView is a council entry joined with the person's contact data and type.
type ConselhoView struct {
	Conselho
	PessoaName     string  `db:"nmpessoa"`
	PessoaPhoto    *string `db:"fotopessoa"`
	PessoaPhone    *string `db:"telefone"`
	PessoaEmail    *string `db:"email"`
	TipoPessoaID   *int64  `db:"cdtipopessoa"`
	TipoPessoaName *string `db:"nmtipopessoa"`
}

// SociedadeMemberCount is an active society with its number of active links.
type SociedadeMemberCount struct {
	ID      int64   `db:"cdsociedade"`
	Name    string  `db:"nmsociedade"`
	Acronym *string `db:"sigla"`
	Members int     `db:"membros"`
}

// PessoaFilter narrows person listings. Nil fields are not applied.
type PessoaFilter struct {
	TipoPessoaID *int64
	SociedadeID  *int64
	Search       string
	Active       *bool
}

// SociedadeFilter narrows society listings.
type SociedadeFilter struct {
	IncludeInactive bool
}

// EventoFilter narrows event listings. From and To are inclusive YYYY-MM-DD bounds.
type EventoFilter struct {
	TipoEventoID *int64
	SociedadeID  *int64
	Active       *bool
	From         string
	To           string
}

// UsuarioFilter narrows account listings.
type UsuarioFilter struct {
	ActiveOnly bool
}
