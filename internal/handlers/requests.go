package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type createSkillRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	FileKey     string   `json:"fileKey" validate:"required"`
	FileSize    *int64   `json:"fileSize" validate:"omitempty,gte=0"`
	ImageKeys   []string `json:"imageKeys" validate:"max=5,dive,required"`
}

type reviewRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// decodeJSON читает тело запроса в dst и проверяет теги validate.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
