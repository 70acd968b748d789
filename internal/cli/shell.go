// Package cli implements the interactive shell: line parsing, the
// Anonymous/Authenticated session state, dispatch to the services and
// output formatting. It holds no business logic of its own.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/dto"
	"github.com/valutatrade/valutatrade-hub/internal/utils"
)

const intro = `ValutaTrade Hub - currency terminal

Commands:
  register <username> <password>    - create an account
  login <username> <password>       - sign in
  logout                            - sign out
  passwd <old> <new>                - change password

  portfolio [--base CURRENCY]       - show portfolio valuation
  buy <currency> <amount>           - buy currency
  sell <currency> <amount>          - sell currency
  history                           - show your transactions

  rate <from> <to>                  - show a pair rate
  rates [--top N] [--currency C]    - list cached rates
  currencies                        - list supported currencies

  help                              - show this help
  exit                              - quit`

// Shell runs the interactive command loop. It owns the session: at most one
// authenticated user at a time, cleared on logout or exit.
type Shell struct {
	users        ports.UserSvc
	wallet       ports.WalletSvc
	rates        ports.RateSvc
	currencies   ports.CurrencySvc
	baseCurrency string

	in  io.Reader
	out io.Writer

	currentUser *domain.User
}

// NewShell creates a shell reading commands from in and writing to out.
func NewShell(users ports.UserSvc, wallet ports.WalletSvc, rates ports.RateSvc, currencies ports.CurrencySvc, baseCurrency string, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		users:        users,
		wallet:       wallet,
		rates:        rates,
		currencies:   currencies,
		baseCurrency: baseCurrency,
		in:           in,
		out:          out,
	}
}

// Run reads and executes commands until "exit" or EOF.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, intro)

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, s.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "exit" || fields[0] == "quit" {
			fmt.Fprintln(s.out, "Bye!")
			return nil
		}
		if err := s.Dispatch(ctx, fields[0], fields[1:]); err != nil {
			s.printError(err)
		}
	}
}

func (s *Shell) prompt() string {
	if s.currentUser != nil {
		return s.currentUser.Username + " >>> "
	}
	return ">>> "
}

// CurrentUser returns the authenticated user of the session, if any.
func (s *Shell) CurrentUser() *domain.User {
	return s.currentUser
}

// Dispatch executes a single parsed command.
func (s *Shell) Dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return s.handleRegister(ctx, args)
	case "login":
		return s.handleLogin(ctx, args)
	case "logout":
		return s.handleLogout()
	case "passwd":
		return s.handlePasswd(ctx, args)
	case "portfolio":
		return s.handlePortfolio(ctx, args)
	case "buy":
		return s.handleBuy(ctx, args)
	case "sell":
		return s.handleSell(ctx, args)
	case "history":
		return s.handleHistory(ctx)
	case "rate":
		return s.handleRate(ctx, args)
	case "rates":
		return s.handleRates(ctx, args)
	case "currencies":
		return s.handleCurrencies(ctx)
	case "help":
		fmt.Fprintln(s.out, intro)
		return nil
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for the command list.\n", command)
		return nil
	}
}

func (s *Shell) requireAuth() (*domain.User, error) {
	if s.currentUser == nil {
		return nil, fmt.Errorf("%w: run 'login' first", apperrors.ErrNotAuthenticated)
	}
	return s.currentUser, nil
}

func (s *Shell) handleRegister(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: register <username> <password>")
		return nil
	}

	user, err := s.users.Register(ctx, dto.RegisterRequest{Username: args[0], Password: args[1]})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "User %q registered (id=%d)\n", user.Username, user.UserID)
	fmt.Fprintf(s.out, "Created initial portfolio with a %s wallet\n", s.baseCurrency)
	fmt.Fprintf(s.out, "Now run: login %s <password>\n", user.Username)
	return nil
}

func (s *Shell) handleLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: login <username> <password>")
		return nil
	}

	user, err := s.users.Authenticate(ctx, dto.LoginRequest{Username: args[0], Password: args[1]})
	if err != nil {
		return err
	}

	s.currentUser = user
	fmt.Fprintf(s.out, "Logged in as %q (id=%d)\n", user.Username, user.UserID)
	fmt.Fprintf(s.out, "Registered: %s\n", user.RegisteredAt.Format("2006-01-02 15:04"))
	return nil
}

func (s *Shell) handleLogout() error {
	if s.currentUser == nil {
		fmt.Fprintln(s.out, "You are not logged in")
		return nil
	}
	fmt.Fprintf(s.out, "Goodbye, %s!\n", s.currentUser.Username)
	s.currentUser = nil
	return nil
}

func (s *Shell) handlePasswd(ctx context.Context, args []string) error {
	user, err := s.requireAuth()
	if err != nil {
		return err
	}
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: passwd <old-password> <new-password>")
		return nil
	}

	req := dto.ChangePasswordRequest{OldPassword: args[0], NewPassword: args[1]}
	if err := s.users.ChangePassword(ctx, user.UserID, req); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Password changed")
	return nil
}

func (s *Shell) handlePortfolio(ctx context.Context, args []string) error {
	user, err := s.requireAuth()
	if err != nil {
		return err
	}

	base := s.baseCurrency
	for i := 0; i < len(args); i++ {
		if args[i] == "--base" && i+1 < len(args) {
			base = strings.ToUpper(args[i+1])
			i++
		}
	}

	report, err := s.wallet.Valuation(ctx, user.UserID, base)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Portfolio of %q (base: %s)\n", report.Username, report.BaseCurrency)
	if report.RatesRefreshed != nil {
		fmt.Fprintf(s.out, "Rates refreshed: %s\n", report.RatesRefreshed.Format("2006-01-02 15:04:05"))
	}

	for _, pos := range report.Positions {
		fmt.Fprintf(s.out, "  %-5s %18s  =%15s %s  %s\n",
			pos.CurrencyCode,
			s.formatAmount(ctx, pos.Balance, pos.CurrencyCode),
			s.formatAmount(ctx, pos.ValueInBase, report.BaseCurrency),
			report.BaseCurrency,
			pos.CurrencyInfo,
		)
	}

	if report.TotalValue.IsPositive() {
		fmt.Fprintf(s.out, "TOTAL: %s\n", s.formatMoney(ctx, report.TotalValue, report.BaseCurrency))
	} else {
		fmt.Fprintln(s.out, "Portfolio is empty. Use 'buy' to purchase currency.")
	}
	return nil
}

func (s *Shell) handleBuy(ctx context.Context, args []string) error {
	user, err := s.requireAuth()
	if err != nil {
		return err
	}
	req, ok := s.parseTrade(args, "buy")
	if !ok {
		return nil
	}

	receipt, err := s.wallet.Buy(ctx, user.UserID, req)
	if err != nil {
		return err
	}

	if receipt.Rate == nil {
		fmt.Fprintf(s.out, "Deposited %s %s\n",
			s.formatAmount(ctx, receipt.Amount, receipt.CurrencyCode), receipt.CurrencyCode)
	} else {
		fmt.Fprintf(s.out, "Bought %s %s at %s %s/%s\n",
			s.formatAmount(ctx, receipt.Amount, receipt.CurrencyCode), receipt.CurrencyCode,
			receipt.Rate.String(), s.baseCurrency, receipt.CurrencyCode)
		fmt.Fprintf(s.out, "Cost: %s\n", s.formatMoney(ctx, *receipt.Cost, s.baseCurrency))
	}
	fmt.Fprintf(s.out, "  %s balance: %s\n", receipt.CurrencyCode, s.formatAmount(ctx, receipt.NewBalance, receipt.CurrencyCode))
	fmt.Fprintf(s.out, "  %s balance: %s\n", s.baseCurrency, s.formatAmount(ctx, receipt.BaseBalanceAfter, s.baseCurrency))
	return nil
}

func (s *Shell) handleSell(ctx context.Context, args []string) error {
	user, err := s.requireAuth()
	if err != nil {
		return err
	}
	req, ok := s.parseTrade(args, "sell")
	if !ok {
		return nil
	}

	receipt, err := s.wallet.Sell(ctx, user.UserID, req)
	if err != nil {
		return err
	}

	if receipt.Rate == nil {
		fmt.Fprintf(s.out, "Withdrew %s %s\n",
			s.formatAmount(ctx, receipt.Amount, receipt.CurrencyCode), receipt.CurrencyCode)
	} else {
		fmt.Fprintf(s.out, "Sold %s %s at %s %s/%s\n",
			s.formatAmount(ctx, receipt.Amount, receipt.CurrencyCode), receipt.CurrencyCode,
			receipt.Rate.String(), s.baseCurrency, receipt.CurrencyCode)
		fmt.Fprintf(s.out, "Proceeds: %s\n", s.formatMoney(ctx, receipt.Proceeds, s.baseCurrency))
	}
	fmt.Fprintf(s.out, "  %s balance: %s\n", receipt.CurrencyCode, s.formatAmount(ctx, receipt.NewBalance, receipt.CurrencyCode))
	fmt.Fprintf(s.out, "  %s balance: %s\n", s.baseCurrency, s.formatAmount(ctx, receipt.BaseBalanceAfter, s.baseCurrency))
	return nil
}

func (s *Shell) handleHistory(ctx context.Context) error {
	user, err := s.requireAuth()
	if err != nil {
		return err
	}

	txns, err := s.wallet.History(ctx, user.UserID)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		fmt.Fprintln(s.out, "No transactions yet")
		return nil
	}

	for _, txn := range txns {
		// The amount is denominated in the traded currency: the target for
		// buys and deposits, the source for sells and withdrawals.
		amountCode := txn.ToCurrencyCode
		if txn.Action == domain.ActionSell || txn.Action == domain.ActionWithdraw {
			amountCode = txn.FromCurrencyCode
		}
		line := fmt.Sprintf("%s  %-8s %s %s",
			txn.Timestamp.Format("2006-01-02 15:04:05"), txn.Action,
			txn.Amount.String(), amountCode)
		if txn.Action == domain.ActionBuy || txn.Action == domain.ActionSell {
			line = fmt.Sprintf("%s @ %s (%s %s)", line, txn.Rate.String(), txn.Total.String(), s.baseCurrency)
		}
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func (s *Shell) handleRate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: rate <from> <to>")
		return nil
	}

	rate, err := s.rates.GetRate(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Rate %s -> %s: %s\n", rate.FromCurrencyCode, rate.ToCurrencyCode, rate.Rate.String())
	fmt.Fprintf(s.out, "Updated: %s\n", rate.UpdatedAt.Format("2006-01-02 15:04:05"))
	if rate.Source != "" {
		fmt.Fprintf(s.out, "Source: %s\n", rate.Source)
	}
	if rate.Derived {
		fmt.Fprintln(s.out, "(derived as reciprocal of the stored reverse pair)")
	} else {
		inverse := decimal.NewFromInt(1).Div(rate.Rate)
		fmt.Fprintf(s.out, "Reverse %s -> %s: %s\n", rate.ToCurrencyCode, rate.FromCurrencyCode, inverse.String())
	}
	return nil
}

func (s *Shell) handleRates(ctx context.Context, args []string) error {
	var params dto.ListRatesParams
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--top" && i+1 < len(args):
			top, err := strconv.Atoi(args[i+1])
			if err != nil {
				fmt.Fprintln(s.out, "--top must be a number")
				return nil
			}
			params.Top = top
			i++
		case args[i] == "--currency" && i+1 < len(args):
			params.CurrencyCode = args[i+1]
			i++
		}
	}

	rates, err := s.rates.ListRates(ctx, params)
	if err != nil {
		return err
	}
	if len(rates) == 0 {
		fmt.Fprintln(s.out, "The local rate cache is empty.")
		return nil
	}

	for _, rate := range rates {
		fmt.Fprintf(s.out, "  %-12s %20s  %s  %s\n",
			rate.FromCurrencyCode+"_"+rate.ToCurrencyCode,
			rate.Rate.String(),
			rate.UpdatedAt.Format("2006-01-02 15:04:05"),
			rate.Source,
		)
	}
	return nil
}

func (s *Shell) handleCurrencies(ctx context.Context) error {
	currencies, err := s.currencies.ListCurrencies(ctx)
	if err != nil {
		return err
	}
	for _, c := range currencies {
		fmt.Fprintln(s.out, "  "+c.DisplayInfo())
	}
	return nil
}

func (s *Shell) parseTrade(args []string, verb string) (dto.TradeRequest, bool) {
	if len(args) != 2 {
		fmt.Fprintf(s.out, "Usage: %s <currency> <amount>\n", verb)
		return dto.TradeRequest{}, false
	}

	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		fmt.Fprintln(s.out, "amount must be a number")
		return dto.TradeRequest{}, false
	}

	return dto.TradeRequest{
		CurrencyCode: strings.ToUpper(args[0]),
		Amount:       amount,
	}, true
}

func (s *Shell) formatAmount(ctx context.Context, amount decimal.Decimal, code string) string {
	currency := domain.Currency{CurrencyCode: code, Precision: 2}
	if c, err := s.currencies.GetCurrencyByCode(ctx, code); err == nil {
		currency = *c
	}
	return utils.FormatWithCurrencyPrecision(amount, currency)
}

func (s *Shell) formatMoney(ctx context.Context, amount decimal.Decimal, code string) string {
	currency := domain.Currency{CurrencyCode: code, Precision: 2}
	if c, err := s.currencies.GetCurrencyByCode(ctx, code); err == nil {
		currency = *c
	}
	return utils.FormatMoney(amount, currency)
}

func (s *Shell) printError(err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		fmt.Fprintln(s.out, "Error: you must log in first")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		fmt.Fprintln(s.out, "Error: invalid username or password")
	case errors.Is(err, apperrors.ErrDuplicate):
		fmt.Fprintf(s.out, "Error: %v\n", err)
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		fmt.Fprintf(s.out, "Error: %v\n", err)
	case errors.Is(err, apperrors.ErrRateNotFound):
		fmt.Fprintf(s.out, "Error: %v\n", err)
	case errors.Is(err, apperrors.ErrValidation):
		fmt.Fprintf(s.out, "Error: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Unexpected error: %v\n", err)
	}
}
