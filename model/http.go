package model

type VerifyRequestBody struct {
	Chord   string `json:"chord,omitempty"`
	Frets   []int  `json:"frets,omitempty"`
	Pressed []int  `json:"pressed"`
	Struck  []int  `json:"struck"`
}

type VerifyResponse struct {
	FretsMatched   bool           `json:"frets_matched"`
	StringsMatched bool           `json:"strings_matched"`
	Errors         map[int]string `json:"errors,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
