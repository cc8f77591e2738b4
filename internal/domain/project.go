package domain

import "time"

// Project statuses mirror the post lifecycle without the review step: a
// project is queued on creation and resolved by the worker.
const (
	ProjectStatusPending    = "pending"
	ProjectStatusProcessing = "processing"
	ProjectStatusCompleted  = "completed"
	ProjectStatusFailed     = "failed"
)

// Project is a multi-scene video generation request resolved through the
// workflow webhook.
type Project struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	CompanyService     string    `json:"company_service"`
	Status             string    `json:"status"`
	HasCustomCharacter bool      `json:"has_custom_character"`
	CharacterURL       string    `json:"character_url,omitempty"`
	Scene1Img          string    `json:"scene_1_img,omitempty"`
	Scene1Vid          string    `json:"scene_1_vid,omitempty"`
	Scene2Img          string    `json:"scene_2_img,omitempty"`
	Scene2Vid          string    `json:"scene_2_vid,omitempty"`
	WebhookResponse    string    `json:"webhook_response,omitempty"`
	ErrorMessage       string    `json:"error_message,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
