package planglist

// ProgrammingLang is a language a submission may be written in.
// The ID doubles as the display name stored on submissions.
type ProgrammingLang struct {
	ID             string `json:"id"`
	MonacoID       string `json:"monacoId"`
	CodeFilename   string `json:"codeFilename"`
	HelloWorldCode string `json:"helloWorldCode"`
}

const (
	Python     = "Python"
	Cpp        = "C++"
	Java       = "Java"
	JavaScript = "JavaScript"
)

func ListProgrammingLanguages() []ProgrammingLang {
	return []ProgrammingLang{
		{
			ID:             Python,
			MonacoID:       "python",
			CodeFilename:   "main.py",
			HelloWorldCode: `print("Hello, World!")`,
		},
		{
			ID:           Cpp,
			MonacoID:     "cpp",
			CodeFilename: "main.cpp",
			HelloWorldCode: `#include <iostream>
int main() {
    std::cout << "Hello, World!" << std::endl;
    return 0;
}`,
		},
		{
			ID:           Java,
			MonacoID:     "java",
			CodeFilename: "Main.java",
			HelloWorldCode: `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}`,
		},
		{
			ID:             JavaScript,
			MonacoID:       "javascript",
			CodeFilename:   "main.js",
			HelloWorldCode: `console.log("Hello, World!");`,
		},
	}
}

func GetProgrammingLanguage(id string) (*ProgrammingLang, error) {
	for _, l := range ListProgrammingLanguages() {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, ErrInvalidProgLang()
}
