package images

import "time"

// Angle enum: the three capture perspectives an analysis requires.
type Angle string

const (
	AngleFront   Angle = "front"
	AngleLeft45  Angle = "left_45"
	AngleRight45 Angle = "right_45"
)

// RequiredAngles in a fixed order, used for queries and error reporting.
func RequiredAngles() []Angle {
	return []Angle{AngleFront, AngleLeft45, AngleRight45}
}

// Image is an uploaded-photo record owned by the upload pipeline. This core
// only reads it.
type Image struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Angle           Angle      `json:"angle"`
	StorageLocation string     `json:"storage_location"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// CollectByAngle picks the most recently created non-deleted image per
// required angle. It fails with MissingImagesError naming every absent
// angle; it never partially succeeds.
func CollectByAngle(candidates []*Image) (map[Angle]*Image, error) {
	byAngle := make(map[Angle]*Image, RequiredImages)
	for _, img := range candidates {
		if img == nil || img.DeletedAt != nil {
			continue
		}
		cur, ok := byAngle[img.Angle]
		if !ok || img.CreatedAt.After(cur.CreatedAt) {
			byAngle[img.Angle] = img
		}
	}

	var missing []Angle
	for _, a := range RequiredAngles() {
		if _, ok := byAngle[a]; !ok {
			missing = append(missing, a)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingImagesError{Angles: missing}
	}
	return byAngle, nil
}

// RequiredImages mirrors the angle count.
const RequiredImages = 3
