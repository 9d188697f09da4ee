package dto

type PreferencesDTO struct {
	Name   string   `json:"name,omitempty" validate:"max=80"`
	Length string   `json:"length,omitempty" validate:"omitempty,oneof=short medium long"`
	Traits []string `json:"traits,omitempty" validate:"max=10,dive,max=40"`
}

type HistoryMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"max=8000"`
}

type AssistantQueryRequest struct {
	SessionId string              `json:"session_id,omitempty" validate:"omitempty,max=64"`
	Question  string              `json:"question" validate:"required,max=4000"`
	ModeHint  string              `json:"mode_hint,omitempty" validate:"omitempty,oneof=auto help analytics navigation nav email dispute_action"`
	Prefs     *PreferencesDTO     `json:"prefs,omitempty"`
	History   []HistoryMessageDTO `json:"history,omitempty" validate:"max=50,dive"`
}

type AssistantQueryResponse struct {
	SessionId     string `json:"session_id"`
	Reply         string `json:"reply"`
	Mode          string `json:"mode"`
	NavigationURL string `json:"navigation_url,omitempty"`
	ChartHandle   string `json:"chart_handle,omitempty"`
	ChartURL      string `json:"chart_url,omitempty"`
}

type SetStickyRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
	Mode      string `json:"mode" validate:"required,oneof=help analytics navigation email dispute_action"`
	Turns     int    `json:"turns" validate:"min=0,max=20"`
}

type ResetSessionRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
}

type NavigationRouteResponse struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
}

type ReloadIndexResponse struct {
	Chunks int `json:"chunks"`
}
