package model

import (
	"time"

	"github.com/google/uuid"
)

// Papéis de acesso.
const (
	RolBalconista    = "balconista"
	RolFarmaceutico  = "farmaceutico"
	RolAdministrador = "administrador"
)

// Usuario é um operador do sistema. O token bearer de cada requisição é
// resolvido para o ID interno deste registro.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	// Rol: balconista | farmaceutico | administrador
	Rol       string `gorm:"type:varchar(20);not null"`
	Ativo     bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
