package entity

// Resident es la referencia mínima a un residente; su ficha completa vive en otro módulo.
type Resident struct {
	ID         string
	FullName   string
	FileNumber string // número de expediente
	Active     bool
}

// Collaborator es la referencia mínima a un colaborador (personal de la residencia).
type Collaborator struct {
	ID             string
	FullName       string
	EmployeeNumber string
	Kind           string // enfermero, medico, administrativo, ...
	Active         bool
}
