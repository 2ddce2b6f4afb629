package controller

import (
	"net/http"
	"strings"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/pricing"
	"brickvault/service"
	"brickvault/session"
	"brickvault/utils"
)

// PriceController handles the price tool: searching sets with retailer
// prices and comparing the offers of one set
type PriceController struct {
	*Renderer
	prices *service.PriceService
	prefs  *service.DraftService
}

// NewPriceController creates a new PriceController
func NewPriceController(renderer *Renderer, prices *service.PriceService, prefs *service.DraftService) *PriceController {
	return &PriceController{Renderer: renderer, prices: prices, prefs: prefs}
}

type priceSearchView struct {
	Query      string
	Results    setListView
	Pagination models.Pagination
	Loaded     bool
	Sort       string
	ShowPrices bool
	Retailers  []pricing.Retailer
}

// showPrices reads the price column preference: stored per user when signed
// in, per session otherwise. Default on.
func (c *PriceController) showPrices(r *http.Request, sess *session.Session, auth session.Auth) bool {
	if auth.SignedIn() {
		return c.prefs.ShowPrices(r.Context(), auth.UserID())
	}
	if show, ok := stored[bool](sess, keyShowPrices); ok {
		return show
	}
	return true
}

// Search handles GET /prices?q=...&page=N&sort=price:lego_asc
func (c *PriceController) Search(w http.ResponseWriter, r *http.Request) {
	sess, auth, r := apiContext(r)
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	spec := listsync.ParseSort(q.Get("sort"))

	data := priceSearchView{
		Query:      query,
		Sort:       spec.String(),
		ShowPrices: c.showPrices(r, sess, auth),
		Retailers:  c.prices.Engine().Retailers(),
	}
	if query == "" {
		sess.Delete(keyPrices)
		c.render(w, r, "prices", "Price tool", data)
		return
	}

	page := queryPage(r)
	st, ok := stored[*searchState](sess, keyPrices)
	if !ok || st.Query != query {
		st = &searchState{Query: query, PagedList: c.prices.Search(query, auth.SignedIn())}
		sess.Store(keyPrices, st)
	}
	if !st.Pager.Loaded() || st.Pager.Pagination().CurrentPage != page {
		if err := st.Load(r.Context(), page); err != nil && !superseded(r, err) {
			c.fail(w, r, "PriceSearch", err)
			return
		}
	}

	view := st.List.Snapshot()
	view.Items = listsync.Sort(view.Items, spec)
	data.Results = setListView{Key: keyPrices, View: view, ReturnTo: r.URL.RequestURI()}
	data.Pagination = st.Pager.Pagination()
	data.Loaded = true
	c.render(w, r, "prices", "Price tool: "+query, data)
}

// ShowPrices handles POST /prices/show (show=1 or 0)
func (c *PriceController) ShowPrices(w http.ResponseWriter, r *http.Request) {
	sess, auth, r := apiContext(r)
	show := r.FormValue("show") == "1"

	var err error
	if auth.SignedIn() {
		err = c.prefs.SetShowPrices(r.Context(), auth.UserID(), show)
	} else {
		sess.Store(keyShowPrices, show)
	}
	c.finish(w, r, "ShowPrices", backTo(r, "/prices"), err, "", map[string]bool{"showPrices": show})
}

// Compare handles GET /prices/{setNum}
func (c *PriceController) Compare(w http.ResponseWriter, r *http.Request) {
	setNum, ok := utils.NormalizeSetNum(r.PathValue("setNum"))
	if !ok {
		c.notFound(w, r)
		return
	}
	_, _, r = apiContext(r)
	comparison, err := c.prices.Compare(r.Context(), setNum, false)
	if err != nil {
		c.fail(w, r, "PriceCompare", err)
		return
	}
	c.render(w, r, "price_compare", "Prices for "+comparison.Set.Name, comparison)
}

// Refresh handles POST /prices/{setNum}/refresh: the API re-checks every
// retailer, then the comparison page is shown again
func (c *PriceController) Refresh(w http.ResponseWriter, r *http.Request) {
	setNum, ok := utils.NormalizeSetNum(r.PathValue("setNum"))
	if !ok {
		c.notFound(w, r)
		return
	}
	_, _, r = apiContext(r)
	comparison, err := c.prices.Compare(r.Context(), setNum, true)
	c.finish(w, r, "PriceRefresh", "/prices/"+setNum, err, "Prices refreshed.", comparison)
}
