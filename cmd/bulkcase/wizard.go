package main

import (
	"fmt"
	"net"
	"net/url"
	"os/user"
	"strings"

	"github.com/ergochat/readline"
	"github.com/go-sql-driver/mysql"
)

// prompt asks for one value, returning defaultVal on enter, on a read
// error, or when there is no terminal.
func prompt(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	p := "[Config]   " + label
	if defaultVal != "" {
		p += " [" + defaultVal + "]"
	}
	rl.SetPrompt(p + ": ")
	defer rl.SetPrompt("bulkcase> ")
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	if val := strings.TrimSpace(line); val != "" {
		return val
	}
	return defaultVal
}

// askDSN walks through the connection settings for engine and returns the
// DSN, or "" if the user gave up.
func askDSN(rl *readline.Instance, engine string) string {
	switch engine {
	case "sqlite":
		fmt.Println("[Config] SQLite connection setup:")
		return prompt(rl, "Database path", ":memory:")
	case "mysql":
		fmt.Println("[Config] MySQL connection setup:")
		cfg := mysql.NewConfig()
		cfg.User = prompt(rl, "User", "root")
		cfg.Passwd = prompt(rl, "Password", "")
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(prompt(rl, "Host", "localhost"), prompt(rl, "Port", "3306"))
		if cfg.DBName = prompt(rl, "Database", ""); cfg.DBName == "" {
			return ""
		}
		return cfg.FormatDSN()
	default:
		fmt.Println("[Config] PostgreSQL connection setup:")
		name := "postgres"
		if u, err := user.Current(); err == nil && u.Username != "" {
			name = u.Username
		}
		name = prompt(rl, "User", name)
		info := url.User(name)
		if pass := prompt(rl, "Password", ""); pass != "" {
			info = url.UserPassword(name, pass)
		}
		u := url.URL{
			Scheme: "postgres",
			User:   info,
			Host:   net.JoinHostPort(prompt(rl, "Host", "localhost"), prompt(rl, "Port", "5432")),
			Path:   "/" + prompt(rl, "Database", name),
		}
		u.RawQuery = url.Values{"sslmode": {prompt(rl, "SSL mode (disable/require/verify-full)", "disable")}}.Encode()
		return u.String()
	}
}

func askEngine(rl *readline.Instance, fromEnv string) string {
	if fromEnv != "" {
		fmt.Printf("[Config] Engine: %s (from BULKCASE_ENGINE)\n", fromEnv)
		return fromEnv
	}
	choice := strings.ToLower(prompt(rl, "Select engine (postgres, mysql, sqlite)", "postgres"))
	if !isValidEngine(choice) {
		fmt.Printf("[Config] Unknown engine %q, using postgres\n", choice)
		return "postgres"
	}
	fmt.Printf("[Config] Engine: %s\n", choice)
	return choice
}

func isValidEngine(engine string) bool {
	switch engine {
	case "postgres", "mysql", "sqlite":
		return true
	}
	return false
}
