package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/wp"
)

// CMSClient is the slice of the CMS API the publisher needs.
type CMSClient interface {
	GetOrCreateTag(ctx context.Context, name string) (int64, error)
	UploadMedia(ctx context.Context, filename string, data []byte, mimeType, altText string) (*wp.Media, error)
	CreatePost(ctx context.Context, input wp.PostInput) (int64, error)
	UpdatePostMeta(ctx context.Context, postID int64, key, value string) error
}

// MediaFetcher downloads image bytes for upload.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Publisher pushes draft records to the CMS. Each draft becomes a published
// post with its images re-hosted in the CMS media library and its SEO fields
// attached as post meta.
type Publisher struct {
	recordRepo database.RecordRepository
	mediaRepo  database.MediaRepository
	cms        CMSClient
	fetcher    MediaFetcher
	categoryID int
	batchSize  int
}

func NewPublisher(recordRepo database.RecordRepository, mediaRepo database.MediaRepository,
	cms CMSClient, fetcher MediaFetcher, categoryID, batchSize int) *Publisher {
	return &Publisher{
		recordRepo: recordRepo,
		mediaRepo:  mediaRepo,
		cms:        cms,
		fetcher:    fetcher,
		categoryID: categoryID,
		batchSize:  batchSize,
	}
}

// Run publishes pending drafts. A failing record is logged and skipped so
// one broken draft never blocks the rest of the batch.
func (p *Publisher) Run(ctx context.Context) error {
	drafts, err := p.recordRepo.GetDrafts(p.categoryID, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to load drafts: %w", err)
	}

	if len(drafts) == 0 {
		return nil
	}

	slog.Info("Publishing drafts", "count", len(drafts))

	published := 0
	for _, record := range drafts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.publishRecord(ctx, record); err != nil {
			slog.Error("Failed to publish record", "record_id", record.ID, "error", err)
			continue
		}
		published++
	}

	slog.Info("Publish pass finished", "published", published, "failed", len(drafts)-published)
	return nil
}

func (p *Publisher) publishRecord(ctx context.Context, record database.Record) error {
	tagIDs := p.resolveTags(ctx, record.Tags)
	hosted := p.uploadAssets(ctx, record)
	body := RewriteImageSources(record.Body, hosted)

	postID, err := p.cms.CreatePost(ctx, wp.PostInput{
		Title:      record.Title,
		Content:    body,
		Status:     "publish",
		Slug:       record.Slug,
		Categories: []int{record.CategoryID},
		Tags:       tagIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	if err := p.recordRepo.MarkPublished(record.ID, postID); err != nil {
		return fmt.Errorf("failed to mark record published: %w", err)
	}

	p.pushSEOMeta(ctx, postID, record)

	slog.Info("Published record", "record_id", record.ID, "post_id", postID, "title", record.Title)
	return nil
}

// resolveTags maps tag names to CMS tag IDs. A tag that cannot be resolved
// is dropped from the post rather than failing the publish.
func (p *Publisher) resolveTags(ctx context.Context, tags []string) []int64 {
	var ids []int64
	for _, name := range tags {
		id, err := p.cms.GetOrCreateTag(ctx, name)
		if err != nil {
			slog.Warn("Failed to resolve tag", "tag", name, "error", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// uploadAssets re-hosts the record's images in the CMS media library and
// returns a source URL to hosted URL mapping for body rewriting. Failed
// uploads leave the original source in place.
func (p *Publisher) uploadAssets(ctx context.Context, record database.Record) map[string]string {
	assets, err := p.mediaRepo.GetAssetsByRecord(record.ID)
	if err != nil {
		slog.Warn("Failed to load media assets", "record_id", record.ID, "error", err)
		return nil
	}

	hosted := make(map[string]string)
	for _, asset := range assets {
		media, err := p.uploadAsset(ctx, asset)
		if err != nil {
			slog.Warn("Failed to upload media asset", "asset_id", asset.ID, "url", asset.SourceURL, "error", err)
			continue
		}

		if err := p.mediaRepo.UpdateRemote(asset.ID, media.ID, media.SourceURL); err != nil {
			slog.Warn("Failed to record uploaded asset", "asset_id", asset.ID, "error", err)
		}
		hosted[asset.SourceURL] = media.SourceURL
	}

	return hosted
}

func (p *Publisher) uploadAsset(ctx context.Context, asset database.MediaAsset) (*wp.Media, error) {
	if asset.RemoteURL != nil && *asset.RemoteURL != "" && asset.RemoteID != nil {
		return &wp.Media{ID: *asset.RemoteID, SourceURL: *asset.RemoteURL}, nil
	}

	data, err := p.fetcher.Fetch(ctx, asset.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	filename, mimeType := imageFileInfo(asset.SourceURL)
	return p.cms.UploadMedia(ctx, filename, data, mimeType, asset.AltText)
}

// pushSEOMeta sets the record's SEO fields on the post one field at a time.
// Failures are logged and skipped, the post is already live at this point.
func (p *Publisher) pushSEOMeta(ctx context.Context, postID int64, record database.Record) {
	fields := map[string]string{
		"_yoast_wpseo_title":    record.SEOTitle,
		"_yoast_wpseo_metadesc": record.SEODescription,
		"_yoast_wpseo_focuskw":  record.SEOKeyphrase,
	}

	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := p.cms.UpdatePostMeta(ctx, postID, key, value); err != nil {
			slog.Warn("Failed to set SEO meta field", "post_id", postID, "field", key, "error", err)
		}
	}
}

var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

func imageFileInfo(sourceURL string) (filename, mimeType string) {
	filename = "image.jpg"
	mimeType = "image/jpeg"

	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return filename, mimeType
	}

	base := path.Base(parsed.Path)
	ext := strings.ToLower(path.Ext(base))
	if mime, ok := mimeByExtension[ext]; ok {
		return base, mime
	}

	return filename, mimeType
}
