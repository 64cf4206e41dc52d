package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/spritecache"
)

// SpriteInfo describes one animation of a sprite.
type SpriteInfo struct {
	AnimationID  uint    `json:"animationId"`
	Name         string  `json:"name"`
	ImageURL     string  `json:"imageUrl"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Frames       int     `json:"frames"`
	Scale        float64 `json:"scale"`
	FrameRate    int     `json:"frameRate"`
	HitboxX      *int    `json:"hitboxX"`
	HitboxY      *int    `json:"hitboxY"`
	HitboxWidth  *int    `json:"hitboxWidth"`
	HitboxHeight *int    `json:"hitboxHeight"`
}

// A Hitbox is the area of a frame that collides.
type Hitbox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// A Rename changes the name of a sprite.
type Rename struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// SpritesService manages sprites and their animations.
// Images are kept in the Client's sprite cache.
type SpritesService struct{ c *Client }

// Upload sends the zip archive of a sprite.
func (s *SpritesService) Upload(ctx context.Context, filename string, archive io.Reader) (SpriteInfo, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return SpriteInfo{}, err
	}

	if _, err := io.Copy(fw, archive); err != nil {
		return SpriteInfo{}, fmt.Errorf("failed reading %s: %w", filename, err)
	}

	if err := mw.Close(); err != nil {
		return SpriteInfo{}, err
	}

	req, err := s.c.newRequest(ctx, http.MethodPost, "/sprite", buf)
	if err != nil {
		return SpriteInfo{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var si SpriteInfo
	if err := s.c.do(req, &si); err != nil {
		return SpriteInfo{}, err
	}

	return si, nil
}

// All lists every animation of every sprite.
func (s *SpritesService) All(ctx context.Context) ([]SpriteInfo, error) {
	return s.list(ctx, "/sprite/all")
}

// Animations lists the animations of the sprite named name.
func (s *SpritesService) Animations(ctx context.Context, name string) ([]SpriteInfo, error) {
	return s.list(ctx, "/sprite/animations/"+url.PathEscape(name))
}

func (s *SpritesService) list(ctx context.Context, path string) ([]SpriteInfo, error) {
	req, err := s.c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var sis []SpriteInfo
	if err := s.c.do(req, &sis); err != nil {
		return nil, err
	}

	return sis, nil
}

// Delete deletes the sprite named name and evicts its images.
func (s *SpritesService) Delete(ctx context.Context, name string) error {
	s.c.sprites.DeleteByName(name)

	req, err := s.c.newRequest(ctx, http.MethodDelete, "/sprite/delete/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}

	return s.c.do(req, nil)
}

// Rename renames a sprite.
func (s *SpritesService) Rename(ctx context.Context, rn Rename) (SpriteInfo, error) {
	req, err := s.c.newRequest(ctx, http.MethodPut, "/sprite/rename", rn)
	if err != nil {
		return SpriteInfo{}, err
	}

	var si SpriteInfo
	if err := s.c.do(req, &si); err != nil {
		return SpriteInfo{}, err
	}

	return si, nil
}

// Image retrieves the image stored at path, from the cache when it holds it.
func (s *SpritesService) Image(ctx context.Context, path string) (spritecache.Blob, error) {
	return s.c.sprites.GetOrFetch(ctx, path, func(ctx context.Context) (spritecache.Blob, error) {
		segs := strings.Split(strings.Trim(path, "/"), "/")
		for i, seg := range segs {
			segs[i] = url.PathEscape(seg)
		}

		req, err := s.c.newRequest(ctx, http.MethodGet, "/sprite/sprite-storage/"+strings.Join(segs, "/"), nil)
		if err != nil {
			return spritecache.Blob{}, err
		}
		req.Header.Set("Accept", "image/*")

		res, err := s.c.send(req)
		if err != nil {
			return spritecache.Blob{}, err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return spritecache.Blob{}, fmt.Errorf("%w: %s", outpost.ErrUnexpected, err)
		}

		return spritecache.Blob{Data: data, ContentType: res.Header.Get("Content-Type")}, nil
	})
}

// Normalize evens out the frames of an animation's sprite sheet,
// evicting the sheet at spriteURL.
func (s *SpritesService) Normalize(ctx context.Context, animationID uint, spriteURL string) (SpriteInfo, error) {
	s.c.sprites.Delete(spriteURL)

	req, err := s.c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/sprite/normalize-sprite-sheet/%d", animationID), nil)
	if err != nil {
		return SpriteInfo{}, err
	}

	var si SpriteInfo
	if err := s.c.do(req, &si); err != nil {
		return SpriteInfo{}, err
	}

	return si, nil
}

// Flip mirrors an animation horizontally, evicting the sheet at spriteURL.
func (s *SpritesService) Flip(ctx context.Context, animationID uint, spriteURL string) error {
	s.c.sprites.Delete(spriteURL)
	return s.call(ctx, http.MethodGet, fmt.Sprintf("/sprite/flip-horizontal/%d", animationID), nil)
}

// SaveFrameRate sets the frame rate of an animation.
func (s *SpritesService) SaveFrameRate(ctx context.Context, animationID uint, frameRate int) error {
	if frameRate <= 0 {
		return fmt.Errorf("%w: frame rate must be positive", outpost.ErrNotValid)
	}

	return s.call(ctx, http.MethodPut, fmt.Sprintf("/sprite/save-frame-rate/%d/%d", animationID, frameRate), nil)
}

// SaveHitbox sets the hitbox of an animation.
func (s *SpritesService) SaveHitbox(ctx context.Context, animationID uint, hb Hitbox) error {
	return s.call(ctx, http.MethodPut, fmt.Sprintf("/sprite/hitbox/%d", animationID), hb)
}

// DeleteHitbox removes the hitbox of an animation.
func (s *SpritesService) DeleteHitbox(ctx context.Context, animationID uint) error {
	return s.call(ctx, http.MethodDelete, fmt.Sprintf("/sprite/hitbox/%d", animationID), nil)
}

func (s *SpritesService) call(ctx context.Context, method, path string, body any) error {
	req, err := s.c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	return s.c.do(req, nil)
}
