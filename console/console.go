// Package console drives the interactive text menu over the service
// facade: login, registration and the role-dependent library screens.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"steamlib/service"
)

type screenType int

const (
	screenStart screenType = iota
	screenLogin
	screenRegister
	screenLibrary
	screenQuit
)

type Console struct {
	users    *service.UserService
	games    *service.GameService
	transfer *service.TransferService

	in  *bufio.Scanner
	out io.Writer

	current *service.UserProfile
	screen  screenType
}

func New(users *service.UserService, games *service.GameService, transfer *service.TransferService) *Console {
	return &Console{
		users:    users,
		games:    games,
		transfer: transfer,
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
	}
}

// Run blocks in the screen loop until the user quits or stdin closes.
func (c *Console) Run() {
	c.screen = screenStart
	for c.screen != screenQuit {
		switch c.screen {
		case screenLogin:
			c.loginScreen()
		case screenRegister:
			c.registerScreen()
		case screenLibrary:
			c.libraryScreen()
		default:
			c.startScreen()
		}
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine returns the next trimmed input line; ok is false when stdin is
// exhausted.
func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) currentUserName() string {
	if c.current == nil {
		return "Anonymous"
	}
	return c.current.Username
}

func (c *Console) isAdministrator() bool {
	return c.current != nil && c.current.Access == "Administrator"
}

func (c *Console) isUser() bool {
	return c.current != nil && c.current.Access == "User"
}

func (c *Console) startScreen() {
	c.printf("\n1. Login\n2. Register\n3. Browse games as guest\n0. Quit\n> ")
	input, ok := c.readLine()
	if !ok {
		c.screen = screenQuit
		return
	}
	switch input {
	case "1":
		c.screen = screenLogin
	case "2":
		c.screen = screenRegister
	case "3":
		c.current = nil
		c.screen = screenLibrary
	case "0":
		c.screen = screenQuit
	}
}

func (c *Console) loginScreen() {
	for {
		c.printf("Username (empty to go back): ")
		username, ok := c.readLine()
		if !ok || username == "" {
			c.screen = screenStart
			return
		}
		c.printf("Password: ")
		password, ok := c.readLine()
		if !ok {
			c.screen = screenQuit
			return
		}

		user, err := c.users.Authenticate(username, password)
		if err != nil {
			c.printf("An error occurred: %v\n", err)
			continue
		}
		if user == nil {
			c.printf("Wrong username or password.\n")
			continue
		}
		c.current = user
		c.screen = screenLibrary
		return
	}
}

func (c *Console) registerScreen() {
	for {
		c.printf("Enter your username (empty to go back): ")
		username, ok := c.readLine()
		if !ok || username == "" {
			c.screen = screenStart
			return
		}

		exists, err := c.users.UserExists(username)
		if err != nil {
			c.printf("An error occurred: %v\n", err)
			continue
		}
		if exists {
			c.printf("Username already taken.\n")
			continue
		}

		c.printf("Enter your password: ")
		password, ok := c.readLine()
		if !ok {
			c.screen = screenQuit
			return
		}

		c.printf("Access: 1-Administrator, 2-User, 3-Guest\n> ")
		choice, ok := c.readLine()
		if !ok {
			c.screen = screenQuit
			return
		}
		var access string
		switch choice {
		case "1":
			access = "Administrator"
		case "2":
			access = "User"
		case "3":
			access = "Guest"
		default:
			c.printf("Type 1, 2 or 3.\n")
			continue
		}

		if err := c.users.CreateUser(username, password, access); err != nil {
			c.printf("An error occurred: %v\n", err)
			continue
		}

		user, err := c.users.Authenticate(username, password)
		if err != nil {
			c.printf("An error occurred: %v\n", err)
			continue
		}
		c.current = user
		c.screen = screenLibrary
		return
	}
}

func (c *Console) libraryScreen() {
	c.printf("\nWelcome, %s!\n", c.currentUserName())

	access := "Guest"
	if c.isAdministrator() {
		access = "Administrator"
	} else if c.isUser() {
		access = "User"
	}
	c.printf("Your access level is: %s\n", access)
	c.printf("---------------------\n")

	switch {
	case c.isAdministrator():
		c.manageUsersScreen()
	case c.isUser():
		c.manageGamesScreen()
	default:
		c.browseGames("")
		c.current = nil
		c.screen = screenStart
	}
}

func (c *Console) manageUsersScreen() {
	for {
		c.printf("\n1. List users\n2. Delete user\n3. Record counts\n4. Export library\n5. Import library\n(empty to log out)\n> ")
		input, ok := c.readLine()
		if !ok || input == "" {
			c.current = nil
			c.screen = screenStart
			return
		}
		switch input {
		case "1":
			c.printf("Filter (empty for all): ")
			filter, _ := c.readLine()
			c.listUsers(filter)
		case "2":
			c.deleteUserScreen()
		case "3":
			c.printCounts()
		case "4":
			c.exportScreen()
		case "5":
			c.importScreen()
		}
	}
}

func (c *Console) manageGamesScreen() {
	for {
		c.printf("\n1. List games\n2. Export library\n(empty to log out)\n> ")
		input, ok := c.readLine()
		if !ok || input == "" {
			c.current = nil
			c.screen = screenStart
			return
		}
		switch input {
		case "1":
			c.printf("Filter (empty for all): ")
			filter, _ := c.readLine()
			c.browseGames(filter)
		case "2":
			c.exportScreen()
		}
	}
}

func (c *Console) listUsers(filter string) {
	users, err := c.users.ListUsers(filter)
	if err != nil {
		c.printf("An error occurred: %v\n", err)
		return
	}
	for _, user := range users {
		c.printf("%4d  %-20s %s\n", user.Id, user.Username, user.Access)
	}
	c.printf("%d user(s)\n", len(users))
}

func (c *Console) deleteUserScreen() {
	c.printf("Type the name of the user to delete: ")
	username, ok := c.readLine()
	if !ok || username == "" {
		return
	}
	users, err := c.users.ListUsers("")
	if err != nil {
		c.printf("An error occurred: %v\n", err)
		return
	}
	for _, user := range users {
		if user.Username == username {
			if err := c.users.DeleteUser(user.Id); err != nil {
				c.printf("An error occurred: %v\n", err)
				return
			}
			c.printf("Deleted %s.\n", username)
			return
		}
	}
	c.printf("No such user.\n")
}

func (c *Console) browseGames(filter string) {
	games, err := c.games.ListGames(filter)
	if err != nil {
		c.printf("An error occurred: %v\n", err)
		return
	}
	for _, game := range games {
		publisher := game.Publisher
		if publisher == "" {
			publisher = "-"
		}
		c.printf("%-30s %s\n", game.Title, publisher)
	}
	c.printf("%d game(s)\n", len(games))
}

func (c *Console) printCounts() {
	counts, err := c.users.CountRecords()
	if err != nil {
		c.printf("An error occurred: %v\n", err)
		return
	}
	for _, name := range []string{"Users", "Games", "Publishers", "UserGame"} {
		c.printf("%-12s %d\n", name, counts[name])
	}
}

func (c *Console) exportScreen() {
	c.printf("Export file path: ")
	path, ok := c.readLine()
	if !ok || path == "" {
		return
	}
	if err := c.transfer.ExportToFile(path); err != nil {
		c.printf("An error occurred: %v\n", err)
		return
	}
	c.printf("Exported to %s.\n", path)
}

func (c *Console) importScreen() {
	c.printf("Import file path: ")
	path, ok := c.readLine()
	if !ok || path == "" {
		return
	}
	if err := c.transfer.ImportFromFile(path); err != nil {
		c.printf("An error occurred: %v\n", err)
		return
	}
	c.printf("Imported from %s.\n", path)
}
