package dto

// CreateBORequest mirrors the report form. The filing officer is never read from
// the body.
type CreateBORequest struct {
	Comunicante string `json:"comunicante"`
	Descricao   string `json:"descricao"`
	Local       string `json:"local"`
	Data        string `json:"data"`
}
