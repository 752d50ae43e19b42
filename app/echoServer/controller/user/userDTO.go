package user

type VerifyReq struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
}
