package request

type AddEventServiceRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
}
