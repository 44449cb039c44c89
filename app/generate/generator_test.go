package generate

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/scrape"
)

type fakeItemRepo struct {
	candidates []database.SourceItem
	statuses   map[string]string
}

func newFakeItemRepo(candidates ...database.SourceItem) *fakeItemRepo {
	return &fakeItemRepo{candidates: candidates, statuses: make(map[string]string)}
}

func (r *fakeItemRepo) StoreItem(item database.SourceItem) (bool, error) {
	return true, nil
}

func (r *fakeItemRepo) GetCandidates(cutoff time.Time, limit int) ([]database.SourceItem, error) {
	return r.candidates, nil
}

func (r *fakeItemRepo) UpdateItemStatus(itemID string, status string) error {
	r.statuses[itemID] = status
	return nil
}

func (r *fakeItemRepo) GetItemStats() (int, int, int, error) {
	return 0, 0, 0, nil
}

type fakeRecordRepo struct {
	records []database.Record
}

// StoreRecord mirrors the store's unique indexes: at most one record per
// source item and per theme.
func (r *fakeRecordRepo) StoreRecord(record database.Record) (string, error) {
	for _, existing := range r.records {
		if record.ItemID != nil && existing.ItemID != nil && *existing.ItemID == *record.ItemID {
			return "", database.ErrDuplicateRecord
		}
		if record.ThemeID != nil && existing.ThemeID != nil && *existing.ThemeID == *record.ThemeID {
			return "", database.ErrDuplicateRecord
		}
	}

	record.ID = fmt.Sprintf("record-%d", len(r.records)+1)
	r.records = append(r.records, record)
	return record.ID, nil
}

func (r *fakeRecordRepo) GetDrafts(categoryID int, limit int) ([]database.Record, error) {
	return nil, nil
}

func (r *fakeRecordRepo) MarkPublished(recordID string, remoteID int64) error {
	return nil
}

func (r *fakeRecordRepo) GetRecordStats() (int, int, int, error) {
	return 0, 0, 0, nil
}

type fakeMediaRepo struct {
	assets []database.MediaAsset
}

func (r *fakeMediaRepo) StoreAsset(asset database.MediaAsset) error {
	r.assets = append(r.assets, asset)
	return nil
}

func (r *fakeMediaRepo) GetAssetsByRecord(recordID string) ([]database.MediaAsset, error) {
	return nil, nil
}

func (r *fakeMediaRepo) UpdateRemote(assetID string, remoteID int64, remoteURL string) error {
	return nil
}

type fakeFetcher struct {
	pages map[string][]byte
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	page, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("page not found: %s", url)
	}
	return page, nil
}

func articlePage(content string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>Page</title></head><body><article>
<h1>A Long Enough Article Headline</h1>
<p>%s</p>
<p>The second paragraph continues the coverage with additional reporting and context so that the page looks like a genuine article.</p>
</article></body></html>`, content))
}

// fetcherFor serves an article page for every candidate the repo holds,
// embedding the item's content so prompts can be asserted against it.
func fetcherFor(items *fakeItemRepo) *fakeFetcher {
	pages := make(map[string][]byte)
	for _, item := range items.candidates {
		pages[item.ExternalKey] = articlePage(item.Content)
	}
	return &fakeFetcher{pages: pages}
}

type fakeCompletions struct {
	reply string
	err   error
	calls int
}

func (c *fakeCompletions) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

const validReply = `Title: A Headline That Is Long Enough To Pass
Content: A body with more than fifty characters of meaningful article text inside it.
Tags: grand slam
SEO Title: Search Headline
Focus Keyphrase: headline
Slug: a-headline
Meta Description: A description.`

func testItem(id string) database.SourceItem {
	return database.SourceItem{
		ID:          id,
		SourceName:  "test-source",
		ExternalKey: "https://example.com/" + id,
		Title:       "Source Title",
		Content:     "Feed-provided content long enough to generate from.",
		PublishedAt: time.Now().UTC(),
		Status:      database.ItemStatusUnprocessed,
	}
}

func newTestGenerator(items *fakeItemRepo, records *fakeRecordRepo, media *fakeMediaRepo,
	fetcher ContentFetcher, completions CompletionClient) *Generator {
	return NewGenerator(items, records, media, fetcher, scrape.NewExtractor(), completions,
		"tennis", []string{"Tennis", "Tennis news"}, 8, "News", 2, 10)
}

func TestGeneratorSuccessCreatesDraftAndRetiresItem(t *testing.T) {
	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	media := &fakeMediaRepo{}
	completions := &fakeCompletions{reply: validReply}

	g := newTestGenerator(items, records, media, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if items.statuses["item-1"] != database.ItemStatusSucceeded {
		t.Errorf("Expected item succeeded, got '%s'", items.statuses["item-1"])
	}
	if len(records.records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records.records))
	}

	record := records.records[0]
	if record.Status != database.RecordStatusDraft {
		t.Errorf("Expected draft status, got '%s'", record.Status)
	}
	if record.ItemID == nil || *record.ItemID != "item-1" {
		t.Error("Expected record linked to its source item")
	}
	if record.CategoryID != 8 || record.CategoryName != "News" {
		t.Errorf("Unexpected category: %d %s", record.CategoryID, record.CategoryName)
	}
	if record.Tags[0] != "Tennis" {
		t.Errorf("Expected default tags prepended, got %v", record.Tags)
	}
}

func TestGeneratorQualityGateRejectsShortBody(t *testing.T) {
	shortReply := `Title: A Headline That Is Long Enough To Pass
Content: Too short.`

	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	completions := &fakeCompletions{reply: shortReply}

	g := newTestGenerator(items, records, &fakeMediaRepo{}, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The record is kept but gated from publishing; the item still succeeded
	if len(records.records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records.records))
	}
	if records.records[0].Status != database.RecordStatusRejectedQuality {
		t.Errorf("Expected rejected_quality status, got '%s'", records.records[0].Status)
	}
	if items.statuses["item-1"] != database.ItemStatusSucceeded {
		t.Errorf("Expected item succeeded, got '%s'", items.statuses["item-1"])
	}
}

func TestGeneratorQualityGateRejectsShortTitle(t *testing.T) {
	shortReply := `Title: Short title
Content: A body with more than fifty characters of meaningful article text inside it.`

	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	completions := &fakeCompletions{reply: shortReply}

	g := newTestGenerator(items, records, &fakeMediaRepo{}, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if records.records[0].Status != database.RecordStatusRejectedQuality {
		t.Errorf("Expected rejected_quality status, got '%s'", records.records[0].Status)
	}
}

func TestGeneratorOffTopicRetiresItemWithoutRecord(t *testing.T) {
	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	completions := &fakeCompletions{reply: "$$off_topic$$"}

	g := newTestGenerator(items, records, &fakeMediaRepo{}, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if items.statuses["item-1"] != database.ItemStatusRejected {
		t.Errorf("Expected item rejected, got '%s'", items.statuses["item-1"])
	}
	if len(records.records) != 0 {
		t.Errorf("Expected no record for off-topic item, got %d", len(records.records))
	}
}

func TestGeneratorCompletionFailureRetiresItem(t *testing.T) {
	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	completions := &fakeCompletions{err: fmt.Errorf("upstream timeout")}

	g := newTestGenerator(items, records, &fakeMediaRepo{}, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if items.statuses["item-1"] != database.ItemStatusRejected {
		t.Errorf("Expected item rejected, got '%s'", items.statuses["item-1"])
	}
	if len(records.records) != 0 {
		t.Errorf("Expected no record for failed completion, got %d", len(records.records))
	}
}

func TestGeneratorParseFailureLeavesItemUnprocessed(t *testing.T) {
	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	completions := &fakeCompletions{reply: "An unstructured reply with no sections at all."}

	g := newTestGenerator(items, records, &fakeMediaRepo{}, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A malformed reply must not change the item's state
	if _, ok := items.statuses["item-1"]; ok {
		t.Errorf("Expected no status change for parse failure, got '%s'", items.statuses["item-1"])
	}
	if len(records.records) != 0 {
		t.Errorf("Expected no record for parse failure, got %d", len(records.records))
	}
}

func TestGeneratorUnreachablePageRetiresItemDespiteFeedContent(t *testing.T) {
	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	completions := &fakeCompletions{reply: validReply}

	// The fetcher has no page for the item, so every fetch fails
	g := newTestGenerator(items, records, &fakeMediaRepo{}, &fakeFetcher{}, completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Feed excerpts are not a substitute for the scraped page
	if items.statuses["item-1"] != database.ItemStatusRejected {
		t.Errorf("Expected item rejected, got '%s'", items.statuses["item-1"])
	}
	if completions.calls != 0 {
		t.Errorf("Expected no completion call for an unreachable page, got %d", completions.calls)
	}
	if len(records.records) != 0 {
		t.Errorf("Expected no record for an unreachable page, got %d", len(records.records))
	}
}

func TestGeneratorOverlappingRunsCreateOneRecordPerItem(t *testing.T) {
	// The repo keeps returning the item, as a second pass starting before
	// the first one's status update lands would see it
	items := newFakeItemRepo(testItem("item-1"))
	records := &fakeRecordRepo{}
	completions := &fakeCompletions{reply: validReply}

	g := newTestGenerator(items, records, &fakeMediaRepo{}, fetcherFor(items), completions)
	for run := 0; run < 2; run++ {
		if err := g.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if len(records.records) != 1 {
		t.Fatalf("Expected exactly one record for the item, got %d", len(records.records))
	}
	if items.statuses["item-1"] != database.ItemStatusSucceeded {
		t.Errorf("Expected item succeeded, got '%s'", items.statuses["item-1"])
	}
}

func TestGeneratorScrapedImagesStoredAsMedia(t *testing.T) {
	item := testItem("item-1")

	page := `<!DOCTYPE html>
<html><head><title>Page</title></head><body><article>
<h1>A Long Enough Article Headline</h1>
<p>The first paragraph of the source article carries enough text for the readability pass to find the main content region without any trouble at all.</p>
<img src="https://example.com/photo.jpg" alt="Court photo">
<p>The second paragraph continues the coverage with additional reporting and context so that the page looks like a genuine article.</p>
</article></body></html>`

	fetcher := &fakeFetcher{pages: map[string][]byte{
		item.ExternalKey: []byte(page),
	}}

	items := newFakeItemRepo(item)
	records := &fakeRecordRepo{}
	media := &fakeMediaRepo{}
	completions := &fakeCompletions{reply: validReply}

	g := newTestGenerator(items, records, media, fetcher, completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(media.assets) != 1 {
		t.Fatalf("Expected 1 media asset, got %d", len(media.assets))
	}
	if media.assets[0].SourceURL != "https://example.com/photo.jpg" {
		t.Errorf("Unexpected media URL: %s", media.assets[0].SourceURL)
	}
	if media.assets[0].AltText != "Court photo" {
		t.Errorf("Unexpected alt text: %s", media.assets[0].AltText)
	}
	if media.assets[0].RecordID != records.records[0].ID {
		t.Error("Expected media linked to the stored record")
	}
}

func TestGeneratorProcessesItemsIndependently(t *testing.T) {
	offTopic := testItem("item-1")
	onTopic := testItem("item-2")

	items := newFakeItemRepo(offTopic, onTopic)
	records := &fakeRecordRepo{}

	// First call off-topic, second call valid
	completions := &sequencedCompletions{replies: []string{"$$off_topic$$", validReply}}

	g := newTestGenerator(items, records, &fakeMediaRepo{}, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if items.statuses["item-1"] != database.ItemStatusRejected {
		t.Errorf("Expected first item rejected, got '%s'", items.statuses["item-1"])
	}
	if items.statuses["item-2"] != database.ItemStatusSucceeded {
		t.Errorf("Expected second item succeeded, got '%s'", items.statuses["item-2"])
	}
	if len(records.records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(records.records))
	}
}

type sequencedCompletions struct {
	replies []string
	call    int
}

func (c *sequencedCompletions) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.call >= len(c.replies) {
		return "", fmt.Errorf("unexpected completion call %d", c.call)
	}
	reply := c.replies[c.call]
	c.call++
	return reply, nil
}

func TestGeneratorPromptCarriesSourceMaterial(t *testing.T) {
	item := testItem("item-1")
	item.Tags = []string{"ATP"}

	var capturedPrompt string
	completions := &promptCapturingCompletions{reply: validReply, captured: &capturedPrompt}

	items := newFakeItemRepo(item)
	g := newTestGenerator(items, &fakeRecordRepo{}, &fakeMediaRepo{}, fetcherFor(items), completions)
	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(capturedPrompt, item.Content) {
		t.Error("Expected prompt to carry the source content")
	}
	if !strings.Contains(capturedPrompt, "ATP") {
		t.Error("Expected prompt to carry the source tags")
	}
}

type promptCapturingCompletions struct {
	reply    string
	captured *string
}

func (c *promptCapturingCompletions) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	*c.captured = userPrompt
	return c.reply, nil
}
