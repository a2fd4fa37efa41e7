// Package annotation models the annotations attached to items in an
// annotated text, and the "veifatext" JSON document that stores them.
//
// # Variants
//
// Three kinds are built in, each identified by the slug stored in its
// "type" field:
//
//   - text: a short thumb text and a longer body
//   - image: an image URL and a caption
//   - youtube: a YouTube video code and a caption
//
// Kinds are looked up in an explicit [Registry], so callers can add their
// own without touching package state.
//
// # Documents
//
// A [Document] holds the raw page texts and, per annotated item ID, the
// ordered list of its annotations:
//
//	{
//	  "format": "veifatext 0.1",
//	  "pages": ["Once upon a time [[little red]] ..."],
//	  "annotated_items": {
//	    "little red": [
//	      {"type": "text", "thumbtext": "LRRH", "content": "The heroine."},
//	      {"type": "youtube", "code": "dQw4w9WgXcQ", "caption": ""}
//	    ]
//	  }
//	}
//
// [DecodeDocument] is lenient in the same places the editor always was: an
// empty payload gives a blank document, null pages become empty strings and
// annotations without a type are dropped.
package annotation
