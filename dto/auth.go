package dto

type SigninRequest struct {
	Matricula string `json:"matricula" binding:"required"`
	Senha     string `json:"senha" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
