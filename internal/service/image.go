package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const defaultPhotoMaxWidth = 400

// ImageResolver turns a cached photo reference into a URL a client can load.
// Absent references resolve to absent URLs.
type ImageResolver interface {
	ResolveImage(photoReference *string) *string
}

// PhotoURLBuilder renders provider media URLs. *placesapi.Client implements it.
type PhotoURLBuilder interface {
	PhotoURL(photoReference string, maxWidth int) string
}

// PhotoMediaResolver looks up a keyless media URL for a photo reference on
// the server side. *placesapi.Client implements it.
type PhotoMediaResolver interface {
	PhotoMediaURI(ctx context.Context, photoReference string, maxWidth int) (string, error)
}

// DirectImageResolver hands out provider media URLs. They embed the API key.
type DirectImageResolver struct {
	photos   PhotoURLBuilder
	maxWidth int
}

// NewDirectImageResolver builds a resolver backed by the provider client.
func NewDirectImageResolver(photos PhotoURLBuilder, maxWidth int) *DirectImageResolver {
	if maxWidth <= 0 {
		maxWidth = defaultPhotoMaxWidth
	}
	return &DirectImageResolver{photos: photos, maxWidth: maxWidth}
}

func (r *DirectImageResolver) ResolveImage(photoReference *string) *string {
	if photoReference == nil || *photoReference == "" {
		return nil
	}
	u := r.photos.PhotoURL(*photoReference, r.maxWidth)
	return &u
}

// ProxyImageResolver points clients at this service's photo redirect
// endpoint, which keeps the provider key on the server.
type ProxyImageResolver struct {
	baseURL  string
	maxWidth int
}

// NewProxyImageResolver builds a resolver rooted at the public base URL. An
// empty base yields relative URLs.
func NewProxyImageResolver(baseURL string, maxWidth int) *ProxyImageResolver {
	if maxWidth <= 0 {
		maxWidth = defaultPhotoMaxWidth
	}
	return &ProxyImageResolver{baseURL: strings.TrimRight(baseURL, "/"), maxWidth: maxWidth}
}

func (r *ProxyImageResolver) ResolveImage(photoReference *string) *string {
	if photoReference == nil || *photoReference == "" {
		return nil
	}
	u := fmt.Sprintf("%s/places/photos?ref=%s&max_width=%d", r.baseURL, url.QueryEscape(*photoReference), r.maxWidth)
	return &u
}
