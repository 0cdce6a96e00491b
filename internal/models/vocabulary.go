package models

import "gorm.io/datatypes"

// Direction says which way a vocabulary entry is drilled.
type Direction string

const (
	EnglishToTarget Direction = "english_to_target"
	TargetToEnglish Direction = "target_to_english"
)

func (d Direction) IsValid() bool {
	return d == EnglishToTarget || d == TargetToEnglish
}

// VocabularyEntry is read-only reference data for the vocabulary drill.
// The english word is the unique key.
type VocabularyEntry struct {
	English       string                      `json:"english" gorm:"primaryKey;size:100" validate:"required"`
	Translations  datatypes.JSONSlice[string] `json:"translations" gorm:"type:jsonb" validate:"required,min=1"`
	PartOfSpeech  string                      `json:"pos" gorm:"size:50"`
	Pronunciation string                      `json:"pronunciation" gorm:"size:100"`
	Explanation   string                      `json:"explanation" gorm:"type:text"`
}

func (VocabularyEntry) TableName() string {
	return "vocabulary_entries"
}
