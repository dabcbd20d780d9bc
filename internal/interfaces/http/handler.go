// @title           Bond Valuation API
// @version         1.0
// @description     Clean/dirty price, yield, and cashflow calculations for fixed-income instruments

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	appbonds "main/internal/application/service/bonds"
	appvaluation "main/internal/application/service/valuation"
	domainbond "main/internal/domain/entity/bond"
	domainvaluation "main/internal/domain/entity/valuation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	valuationBasePath = "/api/v1/valuation"
	bondsBasePath     = "/api/v1/bonds"

	dateLayout          = "2006-01-02"
	defaultHistoryLimit = 50
)

var (
	errMissingUID        = errors.New("missing uid")
	errMissingSettlement = errors.New("settlementDate is required")
	errMissingMaturity   = errors.New("maturityDate is required")
	errMissingCouponRate = errors.New("couponRate is required")
	errMissingYield      = errors.New("yield is required")
	errMissingPrice      = errors.New("price is required")
	errCouponRateRange   = errors.New("couponRate must be between 0 and 1")
	errNegativeFace      = errors.New("face must be non-negative")
)

type Handler struct {
	router    *gin.Engine
	valuation *appvaluation.Service
	bonds     *appbonds.Service
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *logrus.Logger
}

func NewHandler(val *appvaluation.Service, bonds *appbonds.Service, cache *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:    router,
		valuation: val,
		bonds:     bonds,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	val := h.router.Group(valuationBasePath)
	if h.cache != nil {
		val.Use(h.cacheMiddleware())
	}
	{
		val.POST("/price", h.calculatePrice)
		val.POST("/yield", h.calculateYield)
		val.GET("/history", h.getHistory)
	}

	bonds := h.router.Group(bondsBasePath)
	if h.cache != nil {
		bonds.Use(h.cacheMiddleware())
	}
	{
		bonds.POST("/", h.createBond)
		bonds.PUT("/", h.updateBond)
		bonds.GET("/", h.listBonds)
		bonds.GET("/:uid", h.getBond)
		bonds.DELETE("/:uid", h.deleteBond)
		bonds.GET("/:uid/price", h.priceBond)
	}
}

// Valuation handlers

// calculatePrice computes clean/dirty price from yield
// @Summary      Price from yield
// @Description  Calculate clean price, dirty price, accrued interest, and cashflows from a yield
// @Tags         valuation
// @Accept       json
// @Produce      json
// @Param        request  body      pricePayload  true  "Bond parameters and yield"
// @Success      200      {object}  appvaluation.Result
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /valuation/price [post]
func (h *Handler) calculatePrice(c *gin.Context) {
	var payload pricePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	spec, err := payload.toSpec()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if payload.Yield == nil {
		writeError(c, http.StatusBadRequest, errMissingYield)
		return
	}

	result, err := h.valuation.Price(c.Request.Context(), spec, *payload.Yield)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	h.record(c, spec, result)
	c.JSON(http.StatusOK, result)
}

// calculateYield computes yield from clean price
// @Summary      Yield from price
// @Description  Solve yield to maturity from a clean price via Newton-Raphson
// @Tags         valuation
// @Accept       json
// @Produce      json
// @Param        request  body      yieldPayload  true  "Bond parameters and clean price"
// @Success      200      {object}  appvaluation.Result
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /valuation/yield [post]
func (h *Handler) calculateYield(c *gin.Context) {
	var payload yieldPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	spec, err := payload.toSpec()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if payload.Price == nil {
		writeError(c, http.StatusBadRequest, errMissingPrice)
		return
	}

	result, err := h.valuation.Yield(c.Request.Context(), spec, *payload.Price)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	h.record(c, spec, result)
	c.JSON(http.StatusOK, result)
}

// getHistory lists recent valuation runs
// @Summary      Valuation history
// @Description  Return the most recent valuation records
// @Tags         valuation
// @Accept       json
// @Produce      json
// @Param        limit  query     int  false  "Max records (default 50)"
// @Success      200    {array}   domainvaluation.Record
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /valuation/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		limit = parsed
	}
	records, err := h.valuation.LastRecords(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Bond definition handlers

// createBond stores a bond definition
// @Summary      Create bond
// @Description  Store the static terms of a bond for later pricing
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Param        bond  body      bondPayload  true  "Bond terms"
// @Success      201   {object}  domainbond.Definition
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /bonds [post]
func (h *Handler) createBond(c *gin.Context) {
	var payload bondPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	def, err := payload.toDomain()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.bonds.CreateBond(c.Request.Context(), def); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

// updateBond updates a stored bond definition
// @Summary      Update bond
// @Description  Update the static terms of a stored bond
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Param        bond  body      bondPayload  true  "Bond terms with UID"
// @Success      200   {object}  domainbond.Definition
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /bonds [put]
func (h *Handler) updateBond(c *gin.Context) {
	var payload bondPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if payload.UID == "" {
		writeError(c, http.StatusBadRequest, errMissingUID)
		return
	}
	def, err := payload.toDomain()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.bonds.UpdateBond(c.Request.Context(), def); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// listBonds lists stored bond definitions
// @Summary      List bonds
// @Description  List all stored bond definitions
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Success      200  {array}   domainbond.Definition
// @Failure      500  {object}  map[string]string
// @Router       /bonds [get]
func (h *Handler) listBonds(c *gin.Context) {
	defs, err := h.bonds.ListBonds(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, defs)
}

// getBond retrieves a stored bond definition
// @Summary      Get bond
// @Description  Get a stored bond definition by UID
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Param        uid   path      string  true  "Bond UID"
// @Success      200   {object}  domainbond.Definition
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /bonds/{uid} [get]
func (h *Handler) getBond(c *gin.Context) {
	uid, err := parseUIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	def, err := h.bonds.GetBond(c.Request.Context(), uid)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// deleteBond deletes a stored bond definition
// @Summary      Delete bond
// @Description  Soft-delete a stored bond definition by UID
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Param        uid   path      string  true  "Bond UID"
// @Success      204   "No Content"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /bonds/{uid} [delete]
func (h *Handler) deleteBond(c *gin.Context) {
	uid, err := parseUIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.bonds.DeleteBond(c.Request.Context(), uid); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// priceBond prices a stored bond definition
// @Summary      Price stored bond
// @Description  Price a stored bond at a given yield and settlement date
// @Tags         bonds
// @Accept       json
// @Produce      json
// @Param        uid         path      string  true   "Bond UID"
// @Param        yield       query     number  true   "Yield to maturity (decimal)"
// @Param        settlement  query     string  false  "Settlement date YYYY-MM-DD (default today)"
// @Success      200         {object}  appvaluation.Result
// @Failure      400         {object}  map[string]string
// @Failure      500         {object}  map[string]string
// @Router       /bonds/{uid}/price [get]
func (h *Handler) priceBond(c *gin.Context) {
	uid, err := parseUIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	ytmStr := c.Query("yield")
	if ytmStr == "" {
		writeError(c, http.StatusBadRequest, errMissingYield)
		return
	}
	ytm, err := strconv.ParseFloat(ytmStr, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	settlement := todayUTC()
	if raw := c.Query("settlement"); raw != "" {
		settlement, err = time.Parse(dateLayout, raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
	}

	def, err := h.bonds.GetBond(c.Request.Context(), uid)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	spec := def.SpecAt(settlement)
	result, err := h.valuation.Price(c.Request.Context(), spec, ytm)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	h.record(c, spec, result)
	c.JSON(http.StatusOK, result)
}

// record persists the valuation run; a history failure never fails the response.
func (h *Handler) record(c *gin.Context, spec domainbond.Spec, result *appvaluation.Result) {
	rec := domainvaluation.NewRecord(spec, result.Raw, domainvaluation.SourceHTTP)
	if err := h.valuation.Record(c.Request.Context(), rec); err != nil && h.logger != nil {
		h.logger.WithError(err).Warn("failed to record valuation")
	}
}

func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.FullPath(), c.Request.URL.RawQuery)
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseUIDParam(c *gin.Context) (uuid.UUID, error) {
	value := c.Param("uid")
	if value == "" {
		return uuid.Nil, errMissingUID
	}
	return uuid.Parse(value)
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Payloads

type valuationPayload struct {
	SettlementDate  string   `json:"settlementDate"`
	MaturityDate    string   `json:"maturityDate"`
	IssueDate       string   `json:"issueDate,omitempty"`
	CouponRate      *float64 `json:"couponRate"`
	Frequency       int      `json:"frequency"`
	Face            *float64 `json:"face"`
	DayCount        string   `json:"dayCount"`
	EOMRule         *bool    `json:"eomRule,omitempty"`
	FirstCouponDate string   `json:"firstCouponDate,omitempty"`
	LastCouponDate  string   `json:"lastCouponDate,omitempty"`
	BondType        string   `json:"bondType,omitempty"`
}

func (p valuationPayload) toSpec() (domainbond.Spec, error) {
	if p.SettlementDate == "" {
		return domainbond.Spec{}, errMissingSettlement
	}
	if p.MaturityDate == "" {
		return domainbond.Spec{}, errMissingMaturity
	}
	settlement, err := parseDate(p.SettlementDate)
	if err != nil {
		return domainbond.Spec{}, err
	}
	maturity, err := parseDate(p.MaturityDate)
	if err != nil {
		return domainbond.Spec{}, err
	}
	if p.CouponRate == nil {
		return domainbond.Spec{}, errMissingCouponRate
	}
	if *p.CouponRate < 0 || *p.CouponRate > 1 {
		return domainbond.Spec{}, errCouponRateRange
	}
	frequency, err := domainbond.NewFrequency(p.Frequency)
	if err != nil {
		return domainbond.Spec{}, err
	}
	dayCount, err := domainbond.NewDayCount(p.DayCount)
	if err != nil {
		return domainbond.Spec{}, err
	}

	face := 100.0
	if p.Face != nil {
		if *p.Face < 0 {
			return domainbond.Spec{}, errNegativeFace
		}
		face = *p.Face
	}
	eomRule := true
	if p.EOMRule != nil {
		eomRule = *p.EOMRule
	}

	spec := domainbond.Spec{
		Settlement: settlement,
		Maturity:   maturity,
		Face:       face,
		CouponRate: *p.CouponRate,
		Frequency:  frequency,
		DayCount:   dayCount,
		EOMRule:    eomRule,
		Stub:       domainbond.StubNone,
		Type:       domainbond.NewType(p.BondType),
	}
	if spec.IssueDate, err = parseOptionalDate(p.IssueDate); err != nil {
		return domainbond.Spec{}, err
	}
	if spec.FirstCoupon, err = parseOptionalDate(p.FirstCouponDate); err != nil {
		return domainbond.Spec{}, err
	}
	if spec.LastCoupon, err = parseOptionalDate(p.LastCouponDate); err != nil {
		return domainbond.Spec{}, err
	}
	if err := spec.Validate(); err != nil {
		return domainbond.Spec{}, err
	}
	return spec, nil
}

type pricePayload struct {
	valuationPayload
	Yield *float64 `json:"yield"`
}

type yieldPayload struct {
	valuationPayload
	Price *float64 `json:"price"`
}

type bondPayload struct {
	UID             string   `json:"uid,omitempty"`
	Ticker          string   `json:"ticker"`
	MaturityDate    string   `json:"maturityDate"`
	IssueDate       string   `json:"issueDate,omitempty"`
	CouponRate      float64  `json:"couponRate"`
	Frequency       int      `json:"frequency"`
	Face            *float64 `json:"face"`
	DayCount        string   `json:"dayCount"`
	EOMRule         *bool    `json:"eomRule,omitempty"`
	FirstCouponDate string   `json:"firstCouponDate,omitempty"`
	LastCouponDate  string   `json:"lastCouponDate,omitempty"`
	BondType        string   `json:"bondType,omitempty"`
}

func (p bondPayload) toDomain() (*domainbond.Definition, error) {
	if p.MaturityDate == "" {
		return nil, errMissingMaturity
	}
	maturity, err := parseDate(p.MaturityDate)
	if err != nil {
		return nil, err
	}
	if p.CouponRate < 0 || p.CouponRate > 1 {
		return nil, errCouponRateRange
	}
	frequency, err := domainbond.NewFrequency(p.Frequency)
	if err != nil {
		return nil, err
	}
	dayCount, err := domainbond.NewDayCount(p.DayCount)
	if err != nil {
		return nil, err
	}

	face := 100.0
	if p.Face != nil {
		if *p.Face < 0 {
			return nil, errNegativeFace
		}
		face = *p.Face
	}
	eomRule := true
	if p.EOMRule != nil {
		eomRule = *p.EOMRule
	}

	def := &domainbond.Definition{
		Ticker:     p.Ticker,
		Maturity:   maturity,
		Face:       face,
		CouponRate: p.CouponRate,
		Frequency:  frequency,
		DayCount:   dayCount,
		EOMRule:    eomRule,
		Type:       domainbond.NewType(p.BondType),
	}
	if p.UID != "" {
		uid, err := uuid.Parse(p.UID)
		if err != nil {
			return nil, err
		}
		def.UID = uid
	} else {
		def.UID = uuid.New()
	}
	if def.IssueDate, err = parseOptionalDate(p.IssueDate); err != nil {
		return nil, err
	}
	if def.FirstCoupon, err = parseOptionalDate(p.FirstCouponDate); err != nil {
		return nil, err
	}
	if def.LastCoupon, err = parseOptionalDate(p.LastCouponDate); err != nil {
		return nil, err
	}
	return def, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
