package mapper

import (
	"encoding/json"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/model"

	"gorm.io/datatypes"
)

type AssistantActionMapper struct{}

func NewAssistantActionMapper() *AssistantActionMapper {
	return &AssistantActionMapper{}
}

func (m *AssistantActionMapper) ToModel(a *entity.AssistantAction) (*model.AssistantAction, error) {
	params, err := json.Marshal(a.Parameters)
	if err != nil {
		return nil, err
	}
	return &model.AssistantAction{
		Id:             a.Id,
		SessionId:      a.SessionId,
		UserId:         a.UserId,
		Operation:      a.Operation,
		CatalogVersion: a.CatalogVersion,
		Parameters:     datatypes.JSON(params),
		Outcome:        a.Outcome,
		CreatedAt:      a.CreatedAt,
	}, nil
}
