package persistence

// CatalogItem is a row of one of the name-only lookup tables
// (tipopessoa, tipoevento, pessoatiposociedade).
type CatalogItem struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt Timestamp `db:"created_at"`
	UpdatedAt Timestamp `db:"updated_at"`
}

// Pessoa is a member or attendee record.
type Pessoa struct {
	ID           int64     `db:"cdpessoa"`
	Name         string    `db:"nmpessoa"`
	TipoPessoaID *int64    `db:"cdtipopessoa"`
	Photo        *string   `db:"fotopessoa"`
	BirthDate    *string   `db:"dtnascimento"`
	Phone        *string   `db:"telefone"`
	Email        *string   `db:"email"`
	Address      *string   `db:"endereco"`
	Active       bool      `db:"ativo"`
	CreatedAt    Timestamp `db:"created_at"`
	UpdatedAt    Timestamp `db:"updated_at"`
}

// Sociedade is an internal church group.
type Sociedade struct {
	ID          int64     `db:"cdsociedade"`
	Name        string    `db:"nmsociedade"`
	Acronym     *string   `db:"sigla"`
	Description *string   `db:"descricao"`
	Active      bool      `db:"ativo"`
	CreatedAt   Timestamp `db:"created_at"`
	UpdatedAt   Timestamp `db:"updated_at"`
}

// PessoaSociedade links a person to a society with an optional role.
type PessoaSociedade struct {
	ID          int64     `db:"cdpessoasociedade"`
	PessoaID    int64     `db:"cdpessoa"`
	SociedadeID int64     `db:"cdsociedade"`
	Role        *string   `db:"cargo"`
	RoleTypeID  *int64    `db:"cdpessoatiposociedade"`
	JoinedOn    string    `db:"dataentrada"`
	Active      bool      `db:"ativo"`
	CreatedAt   Timestamp `db:"created_at"`
	UpdatedAt   Timestamp `db:"updated_at"`
}

// Evento is a scheduled church event.
type Evento struct {
	ID           int64     `db:"cdevento"`
	TipoEventoID *int64    `db:"cdtipoevento"`
	Name         string    `db:"nmevento"`
	Description  *string   `db:"descricao"`
	Date         string    `db:"dtevento"`
	Time         string    `db:"horaevento"`
	Address      *string   `db:"enderecoevento"`
	SociedadeID  *int64    `db:"cdsociedade"`
	Image        *string   `db:"imagemevento"`
	Active       bool      `db:"ativo"`
	CreatedAt    Timestamp `db:"created_at"`
	UpdatedAt    Timestamp `db:"updated_at"`
}

// Conselho is a council membership period for a person.
type Conselho struct {
	ID        int64     `db:"cdlider"`
	PessoaID  int64     `db:"cdpessoa"`
	StartDate string    `db:"datainicio"`
	EndDate   *string   `db:"datafim"`
	Notes     *string   `db:"observacao"`
	Active    bool      `db:"ativo"`
	CreatedAt Timestamp `db:"created_at"`
	UpdatedAt Timestamp `db:"updated_at"`
}

// Usuario is a login account. PasswordHash never leaves the service layer.
type Usuario struct {
	ID           int64      `db:"cdusuario"`
	Login        string     `db:"nmlogin"`
	PasswordHash string     `db:"senha"`
	PessoaID     *int64     `db:"cdpessoa"`
	Active       bool       `db:"ativo"`
	LastAccess   *Timestamp `db:"ultimo_acesso"`
	CreatedAt    Timestamp  `db:"created_at"`
	UpdatedAt    Timestamp  `db:"updated_at"`
}
