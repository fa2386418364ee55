package dto

type CreatePolicialRequest struct {
	Nome      string `json:"nome" binding:"required"`
	Matricula string `json:"matricula" binding:"required"`
	Senha     string `json:"senha" binding:"required,min=6,max=72"`
	Role      string `json:"role" binding:"omitempty,oneof=policial admin"`
}
