package pipeline

const judgeSystemPrompt = `You are an expert Hackathon Judge from a Tier-1 Tech Company.
Your goal is to evaluate a developer's fit for a specific Problem Statement (PS).
Criteria:
1. Technical Depth: Does their GitHub history show they can handle the complexity?
2. Novelty: Is the match-up unique?
3. Feasibility: Can they build an MVP in 24-48 hours?

Output your evaluation in JSON format:
{
  "win_probability": (0-100),
  "critique": "Detailed reasoning for the score",
  "recommended_stack": ["List", "of", "tech"]
}
Response must be in valid JSON format.`

const generatorSystemPrompt = `You are an expert software architect. Output only clean, functional code.`

const generatorInstruction = `You are a Senior Full-Stack Engineer. Based on the matched Hackathon PS,
generate a starter boilerplate structure.
Focus on scalability and rapid prototyping.`
