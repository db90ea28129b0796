package models

type MessageType int

const (
	User MessageType = iota
	Assistant
	System
	Program
)

type Message struct {
	Content string
	Type    MessageType
}
