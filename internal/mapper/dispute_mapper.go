package mapper

import (
	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/model"
)

type DisputeMapper struct{}

func NewDisputeMapper() *DisputeMapper {
	return &DisputeMapper{}
}

func (m *DisputeMapper) ToEntity(d *model.Dispute) *entity.Dispute {
	if d == nil {
		return nil
	}
	return &entity.Dispute{
		DisputeId: d.DisputeId,
		Status:    d.Status,
		Carrier:   d.Carrier,
		Amount:    d.Amount,
		Reason:    d.Reason,
		ChangedOn: d.ChangedOn,
		ChangedBy: d.ChangedBy,
	}
}

func (m *DisputeMapper) AuditToModel(a *entity.AuditEntry) *model.AuditTrail {
	return &model.AuditTrail{
		Id:           a.Id,
		DisputeId:    a.DisputeId,
		CreationDate: a.CreationDate,
		Processor:    a.Processor,
		Comments:     a.Comments,
		AssignedTo:   a.AssignedTo,
	}
}
