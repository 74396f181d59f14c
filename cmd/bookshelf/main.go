// CLI bookshelf: cliente de línea de comandos para la API GraphQL.
//
// Habla con el endpoint /graphql usando el bearer token del usuario
// (env BOOKSHELF_TOKEN). Pensado para smoke tests y uso casual, no
// reemplaza a un cliente GraphQL real.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *client) do(query string, vars map[string]any) (*gqlResponse, error) {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, err
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/graphql"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("unauthorized: revisá BOOKSHELF_TOKEN (body=%s)", string(b))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}

	var out gqlResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("respuesta ilegible: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("graphql: %s", out.Errors[0].Message)
	}
	return &out, nil
}

func (c *client) printBook(v any) {
	if c.OutFormat == "json" {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(p))
		return
	}
	b, ok := v.(map[string]any)
	if !ok || b == nil {
		fmt.Println("(null)")
		return
	}
	desc, _ := b["description"].(string)
	fmt.Printf("%s\n  %s — %s\n", b["id"], b["name"], b["author"])
	if desc != "" {
		fmt.Printf("  %s\n", desc)
	}
}

const bookFields = `id name author description createdAt updatedAt`

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("BOOKSHELF_URL", "http://localhost:8080")
		token   = envOr("BOOKSHELF_TOKEN", "")
		out     = envOr("BOOKSHELF_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Cliente CLI para la biblioteca personal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("falta el bearer token (flag --token o env BOOKSHELF_TOKEN)")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env BOOKSHELF_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Bearer token OIDC (env BOOKSHELF_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	cobra.OnInitialize(func() {
		cl.BaseURL = baseURL
		cl.Token = token
		cl.OutFormat = out
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar tus libros (más recientes primero)",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := cl.do(fmt.Sprintf(`{ books { %s } }`, bookFields), nil)
			if err != nil {
				return err
			}
			list, _ := resp.Data["books"].([]any)
			if cl.OutFormat == "json" {
				p, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(p))
				return nil
			}
			if len(list) == 0 {
				fmt.Println("(sin libros)")
				return nil
			}
			for _, b := range list {
				cl.printBook(b)
			}
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Ver un libro por id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := cl.do(
				fmt.Sprintf(`query ($id: ID!) { book(id: $id) { %s } }`, bookFields),
				map[string]any{"id": args[0]},
			)
			if err != nil {
				return err
			}
			cl.printBook(resp.Data["book"])
			return nil
		},
	}

	var addName, addAuthor, addDesc string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Agregar un libro",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addName == "" || addAuthor == "" {
				return fmt.Errorf("--name y --author son requeridos")
			}
			input := map[string]any{"name": addName, "author": addAuthor}
			if addDesc != "" {
				input["description"] = addDesc
			}
			resp, err := cl.do(
				fmt.Sprintf(`mutation ($input: CreateBookInput!) { createBook(input: $input) { %s } }`, bookFields),
				map[string]any{"input": input},
			)
			if err != nil {
				return err
			}
			cl.printBook(resp.Data["createBook"])
			return nil
		},
	}
	addCmd.Flags().StringVar(&addName, "name", "", "Título (requerido)")
	addCmd.Flags().StringVar(&addAuthor, "author", "", "Autor (requerido)")
	addCmd.Flags().StringVar(&addDesc, "description", "", "Descripción (opcional)")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Actualizar campos de un libro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := map[string]any{}
			// Solo mandamos los flags realmente seteados: update parcial
			for flagName, key := range map[string]string{
				"name": "name", "author": "author", "description": "description",
			} {
				if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
					input[key] = f.Value.String()
				}
			}
			if len(input) == 0 {
				return fmt.Errorf("nada que actualizar: pasá --name, --author o --description")
			}
			resp, err := cl.do(
				fmt.Sprintf(`mutation ($id: ID!, $input: UpdateBookInput!) { updateBook(id: $id, input: $input) { %s } }`, bookFields),
				map[string]any{"id": args[0], "input": input},
			)
			if err != nil {
				return err
			}
			if resp.Data["updateBook"] == nil {
				return fmt.Errorf("libro no encontrado")
			}
			cl.printBook(resp.Data["updateBook"])
			return nil
		},
	}
	updateCmd.Flags().String("name", "", "Nuevo título")
	updateCmd.Flags().String("author", "", "Nuevo autor")
	updateCmd.Flags().String("description", "", "Nueva descripción")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Borrar un libro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := cl.do(
				`mutation ($id: ID!) { deleteBook(id: $id) }`,
				map[string]any{"id": args[0]},
			)
			if err != nil {
				return err
			}
			if ok, _ := resp.Data["deleteBook"].(bool); ok {
				fmt.Println("ok")
				return nil
			}
			return fmt.Errorf("libro no encontrado")
		},
	}

	root.AddCommand(listCmd, getCmd, addCmd, updateCmd, rmCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
