package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"auction_scout/internal/domain/entity"
	"auction_scout/internal/domain/value"
	"auction_scout/pkg/errcodes"
	"auction_scout/pkg/httpx/reply"
	"auction_scout/pkg/httpx/req"
	"auction_scout/pkg/rest"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type productService interface {
	List(ctx context.Context, limit, offset int) ([]entity.Product, error)
	GetByUPC(ctx context.Context, upc string) (*entity.Product, error)
}

type researchService interface {
	Reaggregate(ctx context.Context, upc string) (entity.ResearchReport, error)
}

type researcher interface {
	ResearchOne(ctx context.Context, query value.ProductQuery) (entity.ResearchReport, error)
}

type ProductServer struct {
	productService  productService
	researchService researchService
	researcher      researcher
}

func NewProductServer(
	productService productService,
	researchService researchService,
	researcher researcher,
) ProductServer {
	return ProductServer{
		productService:  productService,
		researchService: researchService,
		researcher:      researcher,
	}
}

func (s ProductServer) getV1Products(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset, err := paging(r)
	if err != nil {
		return fmt.Errorf("paging: %w", err)
	}

	products, err := s.productService.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("productService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTProductList(products))

	return nil
}

func (s ProductServer) getV1Product(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	product, err := s.productService.GetByUPC(ctx, r.PathValue("upc"))
	if err != nil {
		return asHTTPError(fmt.Errorf("productService.GetByUPC: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTProduct(*product))

	return nil
}

func (s ProductServer) getV1ProductEstimate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	report, err := s.researchService.Reaggregate(ctx, r.PathValue("upc"))
	if err != nil {
		return asHTTPError(fmt.Errorf("researchService.Reaggregate: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReport(report))

	return nil
}

func (s ProductServer) postV1Research(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ResearchRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	query, err := newDomainQuery(request)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("newDomainQuery: %w", err),
			failure.WithCode(errcodes.InvalidQuery),
		)
	}

	report, err := s.researcher.ResearchOne(ctx, query)
	if err != nil {
		return asHTTPError(fmt.Errorf("researcher.ResearchOne: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReport(report))

	return nil
}

func paging(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, failure.NewInvalidArgumentError(
				"invalid limit",
				failure.WithCode(errcodes.InvalidPaging),
			)
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, failure.NewInvalidArgumentError(
				"invalid offset",
				failure.WithCode(errcodes.InvalidPaging),
			)
		}
	}

	return limit, offset, nil
}
