package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// argParser parses and validates the command and its arguments
func argParser(input string) (map[string]interface{}, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no command entered")
	}

	command := strings.ToUpper(parts[0])
	request := map[string]interface{}{
		"command": command,
	}
	args := parts[1:]

	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("%s requires %s", command, usage)
		}
		return nil
	}
	index := func(raw string) error {
		i, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("index must be an integer: %s", raw)
		}
		request["index"] = i
		return nil
	}

	switch command {
	case "PING", "KEYS":
		if len(args) > 0 {
			return nil, fmt.Errorf("%s does not require any arguments", command)
		}

	case "ECHO":
		if err := need(1, "a message"); err != nil {
			return nil, err
		}
		request["message"] = strings.Join(args, " ")

	case "PUSH", "UNSHIFT":
		if err := need(2, "a key and value"); err != nil {
			return nil, err
		}
		request["key"] = args[0]
		request["value"] = strings.Join(args[1:], " ")

	case "POP", "SHIFT", "LEN", "RANGE", "DEL":
		if err := need(1, "a key"); err != nil {
			return nil, err
		}
		request["key"] = args[0]

	case "GET":
		if err := need(2, "a key and index"); err != nil {
			return nil, err
		}
		request["key"] = args[0]
		if err := index(args[1]); err != nil {
			return nil, err
		}

	case "SET":
		if err := need(3, "a key, index and value"); err != nil {
			return nil, err
		}
		request["key"] = args[0]
		if err := index(args[1]); err != nil {
			return nil, err
		}
		request["value"] = strings.Join(args[2:], " ")

	case "INSERT":
		// INSERT key index BEFORE|AFTER value
		if err := need(4, "a key, index, BEFORE|AFTER and value"); err != nil {
			return nil, err
		}
		request["key"] = args[0]
		if err := index(args[1]); err != nil {
			return nil, err
		}
		switch strings.ToUpper(args[2]) {
		case "AFTER":
			request["after"] = true
		case "BEFORE":
			request["after"] = false
		default:
			return nil, fmt.Errorf("INSERT position must be BEFORE or AFTER")
		}
		request["value"] = strings.Join(args[3:], " ")

	case "REMOVE":
		// REMOVE key index [expected value]
		if err := need(2, "a key and index"); err != nil {
			return nil, err
		}
		request["key"] = args[0]
		if err := index(args[1]); err != nil {
			return nil, err
		}
		if len(args) > 2 {
			request["expect"] = strings.Join(args[2:], " ")
		}

	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}

	return request, nil
}

// formatResponse renders a server reply for the terminal
func formatResponse(response map[string]interface{}) string {
	status, _ := response["status"].(string)
	switch status {
	case "OK":
		for _, field := range []string{"message", "value", "values", "keys", "length", "deleted"} {
			if v, ok := response[field]; ok {
				return fmt.Sprintf("Server: %v", v)
			}
		}
		return "Server: OK"
	case "NOT_FOUND":
		return "Server: (empty)"
	case "CANCELLED":
		return fmt.Sprintf("Server: cancelled (%v)", response["message"])
	case "ERROR":
		return fmt.Sprintf("Server Error: %v", response["message"])
	default:
		return fmt.Sprintf("Unexpected server response: %v", response)
	}
}

func main() {
	addr := flag.String("addr", "localhost:6380", "Server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		return
	}
	defer conn.Close()

	fmt.Println("Connected to server. Type commands (e.g., PUSH key value, GET key 0, INSERT key 0 AFTER value) and press Enter.")
	reader := bufio.NewReader(os.Stdin)
	encoder := msgpack.NewEncoder(conn)
	decoder := msgpack.NewDecoder(conn)

	for {
		fmt.Print(">> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		request, err := argParser(input)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}

		if err := encoder.Encode(request); err != nil {
			fmt.Println("Error sending to server:", err)
			return
		}

		var serverResponse map[string]interface{}
		if err := decoder.Decode(&serverResponse); err != nil {
			fmt.Println("Error reading from server:", err)
			return
		}
		fmt.Println(formatResponse(serverResponse))
	}
}
