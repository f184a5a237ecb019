package models

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	// Gender is optional; "male" or "female" when set.
	Gender string `json:"gender,omitempty" binding:"omitempty,oneof=male female"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecordImageRequest records an image generated outside the try-on endpoint.
type RecordImageRequest struct {
	ImageID  string `json:"image_id" binding:"required"`
	OutfitID string `json:"outfit_id" binding:"required"`
	// StoragePath is the object path of the image inside the user's folder.
	StoragePath string `json:"storage_path,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
