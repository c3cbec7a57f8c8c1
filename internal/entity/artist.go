package entity

type Artist struct {
	Base

	Name        string
	Bio         string
	PortraitURL string
}
