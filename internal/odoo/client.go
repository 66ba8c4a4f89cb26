package odoo

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/kolo/xmlrpc"
	"gorm.io/datatypes"
)

// Auditor records one audit entry per RPC call. Implementations must be
// best-effort: a failed audit write may not fail the call it describes.
type Auditor interface {
	Record(entry *models.OdooSyncLog)
}

// Client is an Odoo XML-RPC client. Authentication happens once per client
// lifetime; every object operation is audit-logged.
type Client struct {
	URL      string
	Database string
	Username string
	Password string

	uid       int
	commonURL string
	objectURL string
	transport http.RoundTripper
	audit     Auditor
}

// NewClient creates a new Odoo client. audit may be nil.
func NewClient(url, db, username, password string, audit Auditor) *Client {
	return &Client{
		URL:       url,
		Database:  db,
		Username:  username,
		Password:  password,
		commonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		objectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
		transport: newTransport(),
		audit:     audit,
	}
}

// newTransport builds the shared HTTP transport. Each RPC is a blocking
// round-trip; 30s is the per-call ceiling, there is no batch-level budget.
func newTransport() http.RoundTripper {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: 30 * time.Second,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
}

// Authenticate authenticates with Odoo and caches the user ID. An
// authentication failure is fatal to the invocation that needed it.
func (c *Client) Authenticate() (int, error) {
	client, err := xmlrpc.NewClient(c.commonURL, c.transport)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Database, c.Username, c.Password, make([]interface{}, 0)}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}
	if uid == 0 {
		// Odoo returns false for bad credentials, which decodes to zero
		return 0, fmt.Errorf("authentication failed: invalid credentials for %q", c.Username)
	}

	c.uid = uid
	log.Printf("✅ Odoo authentication successful (uid=%d)", uid)
	return uid, nil
}

// TestConnection checks the version endpoint without authenticating.
func (c *Client) TestConnection() error {
	client, err := xmlrpc.NewClient(c.commonURL, c.transport)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	var version map[string]interface{}
	if err := client.Call("version", nil, &version); err != nil {
		return fmt.Errorf("odoo connection test failed: %w", err)
	}
	log.Printf("✅ Odoo connection test successful (server version %v)", version["server_version"])
	return nil
}

// ensureAuth authenticates lazily on the first object call.
func (c *Client) ensureAuth() error {
	if c.uid != 0 {
		return nil
	}
	_, err := c.Authenticate()
	return err
}

// executeKw performs one execute_kw call against the object endpoint.
func (c *Client) executeKw(model, method string, args []interface{}, kwargs map[string]interface{}, result interface{}) error {
	if err := c.ensureAuth(); err != nil {
		return err
	}

	client, err := xmlrpc.NewClient(c.objectURL, c.transport)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	callArgs := []interface{}{c.Database, c.uid, c.Password, model, method, args}
	if kwargs != nil {
		callArgs = append(callArgs, kwargs)
	}

	if err := client.Call("execute_kw", callArgs, result); err != nil {
		return fmt.Errorf("failed to execute %s on %s: %w", method, model, err)
	}
	return nil
}

// Search finds records matching domain and reads the requested fields for
// them. A limit of 0 means no limit. No matches is not an error.
func (c *Client) Search(model string, domain []interface{}, fields []string, limit int) ([]Record, error) {
	kwargs := map[string]interface{}{}
	if limit > 0 {
		kwargs["limit"] = limit
	}
	if domain == nil {
		domain = []interface{}{}
	}

	var ids []int64
	if err := c.executeKw(model, "search", []interface{}{domain}, kwargs, &ids); err != nil {
		c.logSync(model, nil, models.OpSearch, models.DirectionFromOdoo, models.StatusError,
			map[string]interface{}{"domain": domain}, nil, err)
		return nil, err
	}

	if len(ids) == 0 {
		return []Record{}, nil
	}

	return c.Read(model, ids, fields)
}

// Read reads the given fields of the given records.
func (c *Client) Read(model string, ids []int64, fields []string) ([]Record, error) {
	request := map[string]interface{}{"ids": ids, "fields": fields}

	var raw []map[string]interface{}
	err := c.executeKw(model, "read", []interface{}{ids}, map[string]interface{}{"fields": fields}, &raw)
	if err != nil {
		c.logSync(model, nil, models.OpRead, models.DirectionFromOdoo, models.StatusError, request, nil, err)
		return nil, err
	}

	records := make([]Record, len(raw))
	for i, m := range raw {
		records[i] = Record(m)
	}

	c.logSync(model, nil, models.OpRead, models.DirectionFromOdoo, models.StatusSuccess, request, records, nil)
	return records, nil
}

// Create creates one record and returns its new id.
func (c *Client) Create(model string, values map[string]interface{}) (int64, error) {
	var id int64
	if err := c.executeKw(model, "create", []interface{}{values}, nil, &id); err != nil {
		c.logSync(model, nil, models.OpCreate, models.DirectionToOdoo, models.StatusError, values, nil, err)
		return 0, err
	}

	c.logSync(model, &id, models.OpCreate, models.DirectionToOdoo, models.StatusSuccess,
		values, map[string]interface{}{"id": id}, nil)
	log.Printf("✅ Odoo: created %s record %d", model, id)
	return id, nil
}

// Update overwrites the given fields of one record.
func (c *Client) Update(model string, id int64, values map[string]interface{}) error {
	var success bool
	err := c.executeKw(model, "write", []interface{}{[]int64{id}, values}, nil, &success)
	if err == nil && !success {
		err = fmt.Errorf("write on %s %d returned false", model, id)
	}
	if err != nil {
		c.logSync(model, &id, models.OpUpdate, models.DirectionToOdoo, models.StatusError, values, nil, err)
		return err
	}

	c.logSync(model, &id, models.OpUpdate, models.DirectionToOdoo, models.StatusSuccess,
		values, map[string]interface{}{"result": success}, nil)
	return nil
}

// Delete unlinks one record.
func (c *Client) Delete(model string, id int64) error {
	var success bool
	err := c.executeKw(model, "unlink", []interface{}{[]int64{id}}, nil, &success)
	if err == nil && !success {
		err = fmt.Errorf("unlink on %s %d returned false", model, id)
	}
	if err != nil {
		c.logSync(model, &id, models.OpDelete, models.DirectionToOdoo, models.StatusError, nil, nil, err)
		return err
	}

	c.logSync(model, &id, models.OpDelete, models.DirectionToOdoo, models.StatusSuccess,
		nil, map[string]interface{}{"result": success}, nil)
	return nil
}

// logSync appends one audit entry. Marshal failures leave the payload empty
// rather than failing the call being described.
func (c *Client) logSync(model string, recordID *int64, op, direction, status string, request, response interface{}, callErr error) {
	if c.audit == nil {
		return
	}

	entry := &models.OdooSyncLog{
		Model:     model,
		RecordID:  recordID,
		Operation: op,
		Direction: direction,
		Status:    status,
		SyncedAt:  time.Now().UTC(),
	}
	if request != nil {
		if data, err := json.Marshal(request); err == nil {
			entry.RequestData = datatypes.JSON(data)
		}
	}
	if response != nil {
		if data, err := json.Marshal(response); err == nil {
			entry.ResponseData = datatypes.JSON(data)
		}
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.ErrorMessage = &msg
	}

	c.audit.Record(entry)
}
