package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/aeeint/lego/internal/config"
	"github.com/aeeint/lego/internal/models"
	"github.com/aeeint/lego/internal/normalize"
	"github.com/aeeint/lego/internal/scraper"
	"github.com/aeeint/lego/internal/storage"
	"github.com/aeeint/lego/internal/transport"
	"github.com/aeeint/lego/internal/util"
)

// Result summarizes one ingestion run against a single store.
type Result struct {
	Fetched  int // records accumulated across all pages
	Rejected int // records dropped during normalization
	Added    int // new records persisted by the merge
	Total    int // store size after the last merge
	Failed   int // queries that aborted on a transport error
}

// Ingestor wires the transport client, parsers, normalizer and stores into
// the two ingestion flows: one listing query for deals, one batch of
// catalog-id queries for resale listings.
type Ingestor struct {
	cfg        *config.Config
	client     *transport.Client
	dealabs    *scraper.DealabsParser
	vinted     *scraper.VintedParser
	normalizer *normalize.Normalizer
	governor   *Governor
	dealStore  *storage.Store[models.Deal]
	saleStore  *storage.Store[models.Sale]
}

func NewIngestor(cfg *config.Config, client *transport.Client, selectors scraper.SelectorConfig) *Ingestor {
	return &Ingestor{
		cfg:        cfg,
		client:     client,
		dealabs:    scraper.NewDealabsParser(selectors),
		vinted:     scraper.NewVintedParser(cfg.VintedBrand),
		normalizer: normalize.New(),
		governor:   NewGovernor(cfg.PageDelay, cfg.QueryDelay),
		dealStore:  storage.NewDealStore(cfg.DealsPath),
		saleStore:  storage.NewSaleStore(cfg.SalesPath),
	}
}

// IngestDeals paginates the aggregator listing until it is exhausted and
// merges the batch into the deal store. A transport failure ends the run
// but whatever pages already succeeded are still persisted.
func (in *Ingestor) IngestDeals(ctx context.Context) (Result, error) {
	var res Result

	paginator := NewPaginator(func(ctx context.Context, page int) ([]models.Deal, error) {
		return in.fetchDealPage(ctx, page, &res)
	}, in.governor, in.cfg.MaxPages)

	batch, runErr := paginator.Run(ctx)
	res.Fetched = len(batch)
	if runErr != nil {
		res.Failed++
		slog.Error("Deal pagination aborted, persisting partial batch", "records", len(batch), "error", runErr)
	}

	total, added, err := in.dealStore.Merge(batch)
	if err != nil {
		return res, fmt.Errorf("failed to persist deals: %w", err)
	}
	res.Added, res.Total = added, total

	slog.Info("Deal ingestion finished",
		"state", paginator.State().String(),
		"fetched", res.Fetched,
		"rejected", res.Rejected,
		"added", res.Added,
		"total", res.Total)
	return res, runErr
}

func (in *Ingestor) fetchDealPage(ctx context.Context, page int, res *Result) ([]models.Deal, error) {
	pageURL, err := listingPageURL(in.cfg.DealabsURL, page)
	if err != nil {
		return nil, err
	}

	body, err := in.fetchWithRetry(ctx, pageURL, in.cfg.DealabsProfile())
	if err != nil {
		return nil, err
	}

	threads, err := in.dealabs.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page %d: %w", page, err)
	}

	deals := make([]models.Deal, 0, len(threads))
	for _, thread := range threads {
		deal, err := in.normalizer.Deal(thread)
		if err != nil {
			res.Rejected++
			slog.Warn("Rejected deal record", "link", thread.Link, "error", err)
			continue
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// IngestSales runs one paginated query per catalog id. A failed query is
// logged and the run moves on to the next id; each query's batch is merged
// as soon as the query terminates so a later failure cannot lose it.
func (in *Ingestor) IngestSales(ctx context.Context, catalogIDs []string) (Result, error) {
	var res Result

	for i, catalogID := range catalogIDs {
		if i > 0 {
			if err := in.governor.WaitQuery(ctx); err != nil {
				return res, err
			}
		}

		paginator := NewPaginator(func(ctx context.Context, page int) ([]models.Sale, error) {
			return in.fetchSalePage(ctx, catalogID, page, &res)
		}, in.governor, in.cfg.MaxPages)

		batch, runErr := paginator.Run(ctx)
		res.Fetched += len(batch)
		if runErr != nil {
			if ctx.Err() != nil {
				return res, runErr
			}
			res.Failed++
			slog.Error("Sales query aborted, continuing with next catalog id",
				"catalogId", catalogID, "records", len(batch), "error", runErr)
		}
		if len(batch) == 0 {
			continue
		}

		total, added, err := in.saleStore.Merge(batch)
		if err != nil {
			return res, fmt.Errorf("failed to persist sales for %s: %w", catalogID, err)
		}
		res.Added += added
		res.Total = total
	}

	slog.Info("Sales ingestion finished",
		"queries", len(catalogIDs),
		"failed", res.Failed,
		"fetched", res.Fetched,
		"rejected", res.Rejected,
		"added", res.Added,
		"total", res.Total)
	return res, nil
}

func (in *Ingestor) fetchSalePage(ctx context.Context, catalogID string, page int, res *Result) ([]models.Sale, error) {
	body, err := in.fetchWithRetry(ctx, catalogPageURL(in.cfg.VintedSearchURL, catalogID, page, in.cfg.PerPage), in.cfg.VintedProfile())
	if err != nil {
		return nil, err
	}

	items, err := in.vinted.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog page %d for %s: %w", page, catalogID, err)
	}

	sales := make([]models.Sale, 0, len(items))
	for _, item := range items {
		sale, err := in.normalizer.Sale(item, catalogID)
		if err != nil {
			res.Rejected++
			slog.Warn("Rejected sale record", "catalogId", catalogID, "link", item.Link, "error", err)
			continue
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (in *Ingestor) fetchWithRetry(ctx context.Context, pageURL string, profile transport.Profile) ([]byte, error) {
	var body []byte
	err := util.RetryWithBackoff(ctx, in.cfg.MaxRetries, time.Second, func(attempt int) error {
		if attempt > 0 {
			slog.Warn("Retrying page fetch", "url", pageURL, "attempt", attempt)
		}
		b, err := in.client.Get(ctx, pageURL, profile)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	return body, err
}

// listingPageURL appends the page cursor to the listing URL. Page 1 is the
// bare listing so the first request matches what a browser would send.
func listingPageURL(base string, page int) (string, error) {
	if page <= 1 {
		return base, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %q: %w", base, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func catalogPageURL(base, catalogID string, page, perPage int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("search_text", catalogID)
	return base + "?" + q.Encode()
}
