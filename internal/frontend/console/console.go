// Package console es la interfaz de línea que maneja un frontend.Controller desde una terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/usuarios-crud/internal/client"
	"github.com/jhoicas/usuarios-crud/internal/frontend"
)

// Encabezados de pantalla.
const (
	TitleCreating = "CRUD de Usuários"
	TitleEditing  = "Editar Usuário"
	TitleList     = "Usuários Cadastrados"
	EmptyList     = "Nenhum usuário cadastrado."
)

const helpText = `Comandos:
  set <campo> <valor>   campos: nome, email, senha, endereco, telefone
  enviar                cadastra ou atualiza
  editar <id>           carrega o usuário no formulário
  excluir <id>          remove o usuário (pede confirmação)
  cancelar              cancela a edição
  atualizar             recarrega a lista
  ajuda                 mostra esta ajuda
  sair                  encerra`

// ErrQuit el usuario pidió salir.
var ErrQuit = errors.New("console: sair")

// Terminal comparte la entrada entre el bucle de comandos y las confirmaciones.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

var _ frontend.Confirmer = (*Terminal)(nil)

// New crea la terminal sobre in/out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

// Confirm pregunta prompt y espera "s"/"sim"/"y"/"yes". EOF cuenta como rechazo.
func (t *Terminal) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(t.out, "%s [s/N] ", prompt)
	line, ok := t.readLine()
	if !ok {
		return false, t.in.Err()
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	}
	return false, nil
}

func (t *Terminal) readLine() (string, bool) {
	if !t.in.Scan() {
		return "", false
	}
	return t.in.Text(), true
}

// Run monta el controlador y procesa comandos hasta "sair", EOF o cancelación del ctx.
// Cada comando va seguido de un render completo de la pantalla.
func (t *Terminal) Run(ctx context.Context, ctrl *frontend.Controller) error {
	_ = ctrl.Mount(ctx)
	t.Render(ctrl.Snapshot())
	fmt.Fprintln(t.out, helpText)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(t.out, "> ")
		line, ok := t.readLine()
		if !ok {
			return t.in.Err()
		}
		err := t.Exec(ctx, ctrl, line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(t.out, err.Error())
			continue
		}
		t.Render(ctrl.Snapshot())
	}
}

// Exec interpreta una línea. Los errores de uso se devuelven; los fallos de las operaciones
// del controlador ya quedan reflejados en el slot de mensaje y no se devuelven.
func (t *Terminal) Exec(ctx context.Context, ctrl *frontend.Controller, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if !isField(field) {
			return fmt.Errorf("campo inválido: %q", field)
		}
		ctrl.UpdateField(field, value)
	case "enviar":
		_ = ctrl.Submit(ctx)
	case "editar":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		user, ok := findUser(ctrl.Snapshot().Users, id)
		if !ok {
			return fmt.Errorf("usuário %d não está na lista", id)
		}
		ctrl.BeginEdit(user)
	case "excluir":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		if err := ctrl.RequestDelete(ctx, id); err != nil {
			var se *client.ServerError
			var ne *client.NetworkError
			if !errors.As(err, &se) && !errors.As(err, &ne) {
				return err
			}
		}
	case "cancelar":
		ctrl.CancelEdit()
	case "atualizar":
		_ = ctrl.FetchAll(ctx)
	case "ajuda":
		fmt.Fprintln(t.out, helpText)
		return nil
	case "sair":
		return ErrQuit
	default:
		return fmt.Errorf("comando desconhecido: %q (digite ajuda)", cmd)
	}
	return nil
}

// Render dibuja encabezado, formulario, mensaje y lista.
func (t *Terminal) Render(s frontend.Snapshot) {
	title := TitleCreating
	if s.Form.Mode.IsEditing() {
		title = TitleEditing
	}
	fmt.Fprintf(t.out, "\n== %s ==\n", title)
	fmt.Fprintf(t.out, "  nome:     %s\n", s.Form.Nome)
	fmt.Fprintf(t.out, "  email:    %s\n", s.Form.Email)
	fmt.Fprintf(t.out, "  senha:    %s\n", maskSenha(s.Form.Senha, s.Form.Mode.IsEditing()))
	fmt.Fprintf(t.out, "  endereco: %s\n", s.Form.Endereco)
	fmt.Fprintf(t.out, "  telefone: %s\n", s.Form.Telefone)

	if !s.Message.Empty() {
		marker := "*"
		if s.Message.IsError() {
			marker = "!"
		}
		fmt.Fprintf(t.out, "\n%s %s\n", marker, s.Message.Text)
	}

	fmt.Fprintf(t.out, "\n== %s ==\n", TitleList)
	if len(s.Users) == 0 {
		fmt.Fprintln(t.out, EmptyList)
		return
	}
	tw := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tEMAIL\tENDERECO\tTELEFONE\tCADASTRO")
	for _, u := range s.Users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Nome, u.Email, dash(u.Endereco), dash(u.Telefone), u.DataCadastro)
	}
	_ = tw.Flush()
}

func maskSenha(senha string, editing bool) string {
	switch {
	case senha != "":
		return strings.Repeat("*", len([]rune(senha)))
	case editing:
		return "(deixe em branco para manter a atual)"
	}
	return ""
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func isField(name string) bool {
	switch name {
	case client.FieldNome, client.FieldEmail, client.FieldSenha, client.FieldEndereco, client.FieldTelefone:
		return true
	}
	return false
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido: %q", raw)
	}
	return id, nil
}

func findUser(users []client.User, id int64) (client.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return client.User{}, false
}
