package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// DefaultTimeout é o limite da chamada ao subgraph; precisa ficar abaixo do teto da plataforma (30s)
const DefaultTimeout = 25 * time.Second

// GraphQLResponseAccept é o Accept enviado ao subgraph
const GraphQLResponseAccept = "application/graphql-response+json"

var emptyVariables = json.RawMessage(`{}`)

// Response é a resposta crua do subgraph
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK informa se o status é 2xx
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Client faz exatamente uma chamada POST por Forward, sem retry
type Client struct {
	HTTP    *http.Client
	Timeout time.Duration
}

// New cria um client com transporte próprio; redirects não são seguidos
// para que a única chamada de saída seja para o host validado.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Timeout: timeout,
	}
}

type graphQLBody struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables"`
}

// Forward envia {query, variables} para target e lê a resposta inteira.
// O timeout cancela a requisição e libera a conexão.
func (c *Client) Forward(ctx context.Context, target, query string, variables json.RawMessage) (*Response, error) {
	if len(variables) == 0 || string(variables) == "null" {
		variables = emptyVariables
	}
	body, err := json.Marshal(graphQLBody{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode graphql body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", GraphQLResponseAccept)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, classify(ctx, err)
	}

	return &Response{
		Status:      res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}

// UnreachableError indica que o subgraph não respondeu (timeout ou falha de rede)
type UnreachableError struct {
	Timeout bool
	Code    string // ECONNREFUSED, ENOTFOUND, ...
	Err     error
}

func (e *UnreachableError) Error() string {
	if e.Timeout {
		return "Subgraph request timed out"
	}
	msg := "Subgraph unreachable"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	return msg
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// classify converte erros de transporte em UnreachableError
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &UnreachableError{Timeout: true, Err: err}
	}
	// *url.Error repete método e URL; a causa é mais útil
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	return &UnreachableError{Code: errorCode(err), Err: err}
}

var errnoCodes = map[syscall.Errno]string{
	syscall.ECONNREFUSED: "ECONNREFUSED",
	syscall.ECONNRESET:   "ECONNRESET",
	syscall.EHOSTUNREACH: "EHOSTUNREACH",
	syscall.ENETUNREACH:  "ENETUNREACH",
	syscall.EPIPE:        "EPIPE",
	syscall.ETIMEDOUT:    "ETIMEDOUT",
}

// errorCode extrai um código de baixo nível quando disponível
func errorCode(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return "ENOTFOUND"
		}
		return "EAI_AGAIN"
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if code, ok := errnoCodes[errno]; ok {
			return code
		}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "ETIMEDOUT"
	}
	return ""
}
