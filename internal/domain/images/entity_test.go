package images

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func img(id string, angle Angle, createdAt time.Time) *Image {
	return &Image{ID: id, OwnerID: "owner-1", Angle: angle, StorageLocation: "uploads/" + id + ".jpg", CreatedAt: createdAt}
}

func TestCollectByAngle_AllPresent(t *testing.T) {
	now := time.Now()
	got, err := CollectByAngle([]*Image{
		img("f1", AngleFront, now),
		img("l1", AngleLeft45, now),
		img("r1", AngleRight45, now),
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "f1", got[AngleFront].ID)
	assert.Equal(t, "l1", got[AngleLeft45].ID)
	assert.Equal(t, "r1", got[AngleRight45].ID)
}

func TestCollectByAngle_PicksNewestPerAngle(t *testing.T) {
	now := time.Now()
	got, err := CollectByAngle([]*Image{
		img("f-old", AngleFront, now.Add(-time.Hour)),
		img("f-new", AngleFront, now),
		img("l1", AngleLeft45, now),
		img("r1", AngleRight45, now),
	})
	require.NoError(t, err)
	assert.Equal(t, "f-new", got[AngleFront].ID)
}

func TestCollectByAngle_SkipsDeleted(t *testing.T) {
	now := time.Now()
	deleted := img("l-del", AngleLeft45, now)
	deletedAt := now.Add(-time.Minute)
	deleted.DeletedAt = &deletedAt

	_, err := CollectByAngle([]*Image{
		img("f1", AngleFront, now),
		deleted,
		img("r1", AngleRight45, now),
	})
	var missing *MissingImagesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []Angle{AngleLeft45}, missing.Angles)
}

func TestCollectByAngle_NamesAllMissingAngles(t *testing.T) {
	_, err := CollectByAngle([]*Image{img("f1", AngleFront, time.Now())})
	var missing *MissingImagesError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []Angle{AngleLeft45, AngleRight45}, missing.Angles)
}

func TestCollectByAngle_Empty(t *testing.T) {
	_, err := CollectByAngle(nil)
	var missing *MissingImagesError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Angles, 3)
}
